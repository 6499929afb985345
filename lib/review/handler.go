package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/metrics"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/status"
	"hr-pipeline/models"
	reviewapimodels "hr-pipeline/models/api/review"
	dbmodels "hr-pipeline/models/db"
)

const (
	errMsgSend          = "Failed to send review request"
	errMsgNoJob         = "Please select a job first"
	msgPartialSuccess   = "Review request sent, but status update failed: %s"
	msgReviewRequestSet = "Review request sent to %s"
)

type Provider interface {
	Open(sess *session.Session, email string) (reviewapimodels.ReviewDraft, error)
	Draft(sess *session.Session) (reviewapimodels.ReviewDraft, error)
	SetReviewer(sess *session.Session, reviewerEmail string) (reviewapimodels.ReviewDraft, error)
	// Send запрос на ревью, затем перевод кандидата в decision_pending_review. Шаги строго последовательны
	Send(ctx context.Context, sess *session.Session) (reviewapimodels.ReviewResult, error)
	Close(sess *session.Session)
}

var Instance Provider

func NewHandler(client atsclient.Provider, applicants applicant.Provider, statuses status.Provider, history actionhistoryhandler.Provider, notifier notify.Provider) {
	Instance = NewInstance(client, applicants, statuses, history, notifier)
}

func NewInstance(client atsclient.Provider, applicants applicant.Provider, statuses status.Provider, history actionhistoryhandler.Provider, notifier notify.Provider) Provider {
	return impl{
		client:     client,
		applicants: applicants,
		statuses:   statuses,
		history:    history,
		notifier:   notifier,
	}
}

type impl struct {
	client     atsclient.Provider
	applicants applicant.Provider
	statuses   status.Provider
	history    actionhistoryhandler.Provider
	notifier   notify.Provider
}

func (i impl) Open(sess *session.Session, email string) (reviewapimodels.ReviewDraft, error) {
	item, ok := sess.FindApplicant(email)
	if !ok {
		return reviewapimodels.ReviewDraft{}, models.ErrApplicantNotFound
	}
	sess.OpenDraft(session.DraftReview, item.Email)
	return i.Draft(sess)
}

func (i impl) Draft(sess *session.Session) (reviewapimodels.ReviewDraft, error) {
	draft, ok := sess.ReviewDraft()
	if !ok {
		return reviewapimodels.ReviewDraft{}, models.ErrDraftNotOpen
	}
	return draft, nil
}

func (i impl) SetReviewer(sess *session.Session, reviewerEmail string) (reviewapimodels.ReviewDraft, error) {
	return sess.UpdateReview(func(draft *reviewapimodels.ReviewDraft) error {
		if draft.Sending {
			return models.ErrUpdateInProgress
		}
		draft.ReviewerEmail = strings.TrimSpace(reviewerEmail)
		draft.Error = ""
		return nil
	})
}

func (i impl) Send(ctx context.Context, sess *session.Session) (result reviewapimodels.ReviewResult, err error) {
	current, ok := sess.ReviewDraft()
	if !ok {
		return result, models.ErrDraftNotOpen
	}
	email := current.ApplicantEmail
	logger := log.WithField("session_id", sess.ID()).WithField("applicant_email", email)
	jobID := sess.SelectedJobID()
	item, found := sess.FindApplicant(email)
	org := sess.Org()

	// проверка и установка Sending в одной блокировке, вторая отправка получает ErrUpdateInProgress
	var req reviewapimodels.ReviewRequest
	var validationErr error
	_, err = sess.UpdateReview(func(draft *reviewapimodels.ReviewDraft) error {
		if draft.ApplicantEmail != email {
			return models.ErrDraftNotOpen
		}
		if draft.Sending {
			return models.ErrUpdateInProgress
		}
		if jobID == "" {
			return models.NewValidationError(errMsgNoJob)
		}
		if !found {
			return models.ErrApplicantNotFound
		}
		if validationErr = draft.Validate(); validationErr != nil {
			draft.Error = validationErr.Error()
			return nil
		}
		req = reviewapimodels.ReviewRequest{
			JobID:             jobID,
			ApplicantName:     item.GetName(),
			ApplicantEmail:    item.Email,
			ReviewerEmail:     draft.ReviewerEmail,
			ResumeUrl:         item.GetResumeUrl(),
			AdditionalDetails: item.GetAdditionalDetails(),
			OrgName:           org.Name,
			OrgEmail:          org.Email,
		}
		draft.Sending = true
		draft.Error = ""
		return nil
	})
	if err != nil {
		return result, err
	}
	if validationErr != nil {
		return result, validationErr
	}
	defer func() { metrics.Workflow("review", err) }()

	err = i.client.CreateReviewRequest(ctx, sess, req)
	i.history.Save(sess, jobID, email, dbmodels.HistoryTypeReviewRequest, actionhistoryhandler.Outcome(err), dbmodels.ActionChanges{
		Description: "Запрос на ревью",
		Data: []dbmodels.ActionChange{
			{Field: "reviewer_email", NewValue: req.ReviewerEmail},
		},
	})
	if err != nil {
		// статус не меняется, перезагрузки нет
		logger.WithError(err).Warn("запрос на ревью не отправлен")
		if errors.Is(err, models.ErrSessionExpired) {
			return result, err
		}
		msg := atsclient.Detail(err, errMsgSend)
		_, _ = sess.UpdateReview(func(draft *reviewapimodels.ReviewDraft) error {
			draft.Sending = false
			draft.Error = msg
			return nil
		})
		i.notifier.Error(sess, msg)
		return result, models.NewRemoteError(msg, err)
	}
	sess.CloseDraftFor(session.DraftReview, email)
	logger.Info("запрос на ревью отправлен")

	statusErr := i.statuses.SetStatus(ctx, sess, email, jobID, models.ApplicantStatusDecisionPendingReview)
	if statusErr != nil {
		if errors.Is(statusErr, models.ErrSessionExpired) {
			return result, statusErr
		}
		logger.WithError(statusErr).Warn("запрос на ревью отправлен, статус не изменен")
		result.Message = fmt.Sprintf(msgPartialSuccess, atsclient.Detail(statusErr, statusErr.Error()))
		i.notifier.Info(sess, result.Message)
		// вкладки должны отражать данные сервера и при частичном успехе
		if loadErr := i.applicants.LoadApplicants(ctx, sess, jobID); loadErr != nil {
			logger.WithError(loadErr).Warn("ошибка перезагрузки кандидатов после запроса на ревью")
		}
		return result, nil
	}
	result.StatusUpdated = true
	result.Message = fmt.Sprintf(msgReviewRequestSet, req.ReviewerEmail)
	i.notifier.Success(sess, result.Message)
	return result, nil
}

func (i impl) Close(sess *session.Session) {
	sess.CloseDraft(session.DraftReview)
}
