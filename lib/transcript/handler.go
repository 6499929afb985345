package transcript

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	pdfexport "hr-pipeline/lib/export/pdf"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/models"
	transcriptapimodels "hr-pipeline/models/api/transcript"
)

const errMsgLoad = "Failed to load interview transcript"

type Provider interface {
	// LoadTranscript не зависит от состояния воронки, ошибка дублируется уведомлением
	LoadTranscript(ctx context.Context, sess *session.Session, feedbackID string) (transcriptapimodels.TranscriptRecord, error)
}

func NewInstance(client atsclient.Provider, notifier notify.Provider) Provider {
	return impl{
		client:   client,
		notifier: notifier,
	}
}

type impl struct {
	client   atsclient.Provider
	notifier notify.Provider
}

func (i impl) LoadTranscript(ctx context.Context, sess *session.Session, feedbackID string) (transcriptapimodels.TranscriptRecord, error) {
	feedbackID = strings.TrimSpace(feedbackID)
	if feedbackID == "" {
		return transcriptapimodels.TranscriptRecord{}, models.NewValidationError("feedback id is required")
	}
	record, err := i.client.GetInterviewFeedback(ctx, sess, feedbackID)
	if err != nil {
		log.WithError(err).
			WithField("session_id", sess.ID()).
			WithField("feedback_id", feedbackID).
			Warn("ошибка загрузки транскрипта")
		if errors.Is(err, models.ErrSessionExpired) {
			return transcriptapimodels.TranscriptRecord{}, err
		}
		msg := atsclient.Detail(err, errMsgLoad)
		i.notifier.Error(sess, msg)
		return transcriptapimodels.TranscriptRecord{}, models.NewRemoteError(msg, err)
	}
	if record.FeedbackID == "" {
		record.FeedbackID = feedbackID
	}
	return record, nil
}

func speaker(role string) string {
	if role == models.TranscriptRoleAssistant {
		return "Interviewer"
	}
	return "Candidate"
}

// ExportText одна строка на реплику, оценка в конце при наличии
func ExportText(record transcriptapimodels.TranscriptRecord) string {
	var sb strings.Builder
	for _, turn := range record.Transcript {
		sb.WriteString(fmt.Sprintf("[%s] %s: %s\n", turn.Timestamp, speaker(turn.Role), turn.Text))
	}
	if record.HasEvaluation() {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Score: %d/100\n", record.Evaluation.Score))
		if record.Evaluation.Suggestion != "" {
			sb.WriteString(fmt.Sprintf("Suggestion: %s\n", record.Evaluation.Suggestion))
		}
	}
	return sb.String()
}

func ExportPDF(record transcriptapimodels.TranscriptRecord) ([]byte, error) {
	lines := make([]pdfexport.TranscriptLine, 0, len(record.Transcript))
	for _, turn := range record.Transcript {
		lines = append(lines, pdfexport.TranscriptLine{
			Timestamp: turn.Timestamp,
			Speaker:   speaker(turn.Role),
			Text:      turn.Text,
		})
	}
	var score *int
	suggestion := ""
	if record.HasEvaluation() {
		score = &record.Evaluation.Score
		suggestion = record.Evaluation.Suggestion
	}
	return pdfexport.GenerateTranscript("AI interview transcript", lines, score, suggestion)
}
