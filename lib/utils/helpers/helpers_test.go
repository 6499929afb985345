package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpers(t *testing.T) {
	t.Run("NormalizeEmail", func(t *testing.T) {
		require.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
	})
	t.Run("FileNameSafe", func(t *testing.T) {
		require.Equal(t, "a_b.pdf", FileNameSafe("a/b.pdf"))
		require.Equal(t, "file", FileNameSafe("  "))
	})
}
