package smtp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("bot@acme.io", "hr@acme.io", "Offer sent", "Offer letter sent to a@x.com")
	require.True(t, strings.HasPrefix(msg, "From: bot@acme.io\r\nTo: hr@acme.io\r\nSubject: HR Pipeline - Offer sent\r\n"))
	require.True(t, strings.HasSuffix(msg, "\r\n\r\nOffer letter sent to a@x.com\r\n"))
}

func TestSendEMailNotConfigured(t *testing.T) {
	Connect("", "", "", "", true)
	require.False(t, Instance.IsConfigured())
	require.NoError(t, Instance.SendEMail("hr@acme.io", "text", "subject"))
}
