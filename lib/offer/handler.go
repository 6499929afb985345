package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	"hr-pipeline/lib/applicant"
	pdfexport "hr-pipeline/lib/export/pdf"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/metrics"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/utils/helpers"
	"hr-pipeline/models"
	offerapimodels "hr-pipeline/models/api/offer"
	dbmodels "hr-pipeline/models/db"
)

const (
	errMsgSend  = "Failed to send offer letter"
	errMsgNoJob = "Please select a job first"
)

type Provider interface {
	Open(sess *session.Session, email string) (offerapimodels.OfferDraft, error)
	Draft(sess *session.Session) (offerapimodels.OfferDraft, error)
	AttachFile(sess *session.Session, fileName, contentType string, body []byte) (offerapimodels.OfferDraft, error)
	// GenerateLetter формирует письмо-оффер по шаблону и прикладывает его к форме
	GenerateLetter(sess *session.Session) (offerapimodels.OfferDraft, error)
	// Send отправка с ручным токеном: при 401 одно обновление токена и один повтор
	Send(ctx context.Context, sess *session.Session) error
	Close(sess *session.Session)
}

var Instance Provider

func NewHandler(client atsclient.Provider, applicants applicant.Provider, history actionhistoryhandler.Provider, notifier notify.Provider) {
	Instance = NewInstance(client, applicants, history, notifier)
}

func NewInstance(client atsclient.Provider, applicants applicant.Provider, history actionhistoryhandler.Provider, notifier notify.Provider) Provider {
	return impl{
		client:     client,
		applicants: applicants,
		history:    history,
		notifier:   notifier,
	}
}

type impl struct {
	client     atsclient.Provider
	applicants applicant.Provider
	history    actionhistoryhandler.Provider
	notifier   notify.Provider
}

func (i impl) Open(sess *session.Session, email string) (offerapimodels.OfferDraft, error) {
	item, ok := sess.FindApplicant(email)
	if !ok {
		return offerapimodels.OfferDraft{}, models.ErrApplicantNotFound
	}
	sess.OpenDraft(session.DraftOffer, item.Email)
	return i.Draft(sess)
}

func (i impl) Draft(sess *session.Session) (offerapimodels.OfferDraft, error) {
	draft, ok := sess.OfferDraft()
	if !ok {
		return offerapimodels.OfferDraft{}, models.ErrDraftNotOpen
	}
	return draft, nil
}

func (i impl) AttachFile(sess *session.Session, fileName, contentType string, body []byte) (offerapimodels.OfferDraft, error) {
	return sess.UpdateOffer(func(draft *offerapimodels.OfferDraft) error {
		if draft.Sending {
			return models.ErrUpdateInProgress
		}
		draft.SetFile(fileName, contentType, body)
		return nil
	})
}

func (i impl) GenerateLetter(sess *session.Session) (offerapimodels.OfferDraft, error) {
	draft, ok := sess.OfferDraft()
	if !ok {
		return offerapimodels.OfferDraft{}, models.ErrDraftNotOpen
	}
	item, ok := sess.FindApplicant(draft.ApplicantEmail)
	if !ok {
		return draft, models.ErrApplicantNotFound
	}
	job, ok := sess.FindJob(sess.SelectedJobID())
	if !ok {
		return draft, models.NewValidationError(errMsgNoJob)
	}
	org := sess.Org()
	body, err := pdfexport.GenerateOffer("", offerapimodels.OfferLetterData{
		CompanyName:   org.Name,
		CompanyEmail:  org.Email,
		ApplicantName: item.GetName(),
		Role:          job.Role,
		Location:      job.Location,
		Date:          time.Now().Format("02.01.2006"),
	})
	if err != nil {
		log.WithError(err).WithField("session_id", sess.ID()).Error("ошибка формирования письма-оффера")
		return draft, errors.Wrap(err, "ошибка формирования письма-оффера")
	}
	fileName := fmt.Sprintf("offer_%s.pdf", helpers.FileNameSafe(item.GetName()))
	return i.AttachFile(sess, fileName, "application/pdf", body)
}

func (i impl) Send(ctx context.Context, sess *session.Session) (err error) {
	current, ok := sess.OfferDraft()
	if !ok {
		return models.ErrDraftNotOpen
	}
	email := current.ApplicantEmail
	logger := log.WithField("session_id", sess.ID()).WithField("applicant_email", email)
	jobID := sess.SelectedJobID()
	item, found := sess.FindApplicant(email)
	org := sess.Org()

	// проверка и установка Sending в одной блокировке, вторая отправка получает ErrUpdateInProgress
	var req offerapimodels.OfferLetterRequest
	var validationErr error
	_, err = sess.UpdateOffer(func(draft *offerapimodels.OfferDraft) error {
		if draft.ApplicantEmail != email {
			return models.ErrDraftNotOpen
		}
		if draft.Sending {
			return models.ErrUpdateInProgress
		}
		if !draft.HasFile() {
			draft.Error = offerapimodels.ErrMsgFile
			validationErr = models.NewValidationError(offerapimodels.ErrMsgFile)
			return nil
		}
		if jobID == "" {
			return models.NewValidationError(errMsgNoJob)
		}
		if !found {
			return models.ErrApplicantNotFound
		}
		req = offerapimodels.OfferLetterRequest{
			ApplicantEmail: item.Email,
			ApplicantName:  item.GetName(),
			OrgEmail:       org.Email,
			OrgName:        org.Name,
			JobID:          jobID,
			FileName:       draft.FileName,
			ContentType:    draft.ContentType,
			FileBody:       draft.FileBody,
		}
		draft.Sending = true
		draft.Error = ""
		return nil
	})
	if err != nil {
		return err
	}
	if validationErr != nil {
		return validationErr
	}
	defer func() { metrics.Workflow("offer", err) }()

	err = i.sendWithRetry(ctx, sess, req)
	i.history.Save(sess, jobID, email, dbmodels.HistoryTypeOffer, actionhistoryhandler.Outcome(err), dbmodels.ActionChanges{
		Description: "Отправка письма-оффера",
		Data: []dbmodels.ActionChange{
			{Field: "file_name", NewValue: req.FileName},
		},
	})
	if err != nil {
		logger.WithError(err).Warn("оффер не отправлен")
		if errors.Is(err, models.ErrSessionExpired) {
			return err
		}
		msg := atsclient.Detail(err, errMsgSend)
		_, _ = sess.UpdateOffer(func(draft *offerapimodels.OfferDraft) error {
			draft.Sending = false
			draft.Error = msg
			return nil
		})
		i.notifier.Error(sess, msg)
		return models.NewRemoteError(msg, err)
	}

	_, _ = sess.UpdateOffer(func(draft *offerapimodels.OfferDraft) error {
		draft.ClearFile()
		return nil
	})
	sess.CloseDraftFor(session.DraftOffer, email)
	i.notifier.Success(sess, fmt.Sprintf("Offer letter sent to %s", item.GetName()))
	logger.Info("оффер отправлен")
	if loadErr := i.applicants.LoadApplicants(ctx, sess, jobID); loadErr != nil {
		logger.WithError(loadErr).Warn("ошибка перезагрузки кандидатов после отправки оффера")
	}
	return nil
}

// sendWithRetry повтор строго один: повторный 401 или неудачное обновление токена завершают сессию
func (i impl) sendWithRetry(ctx context.Context, sess *session.Session, req offerapimodels.OfferLetterRequest) error {
	token := sess.AccessToken()
	if token == "" {
		sess.Revoke()
		return models.ErrSessionExpired
	}
	err := i.client.SendOfferLetter(ctx, token, req)
	if !atsclient.IsUnauthorized(err) {
		return err
	}
	if refreshErr := i.client.RefreshTokens(ctx, sess); refreshErr != nil {
		log.WithError(refreshErr).WithField("session_id", sess.ID()).Warn("ошибка обновления токена при отправке оффера")
		sess.Revoke()
		return models.ErrSessionExpired
	}
	err = i.client.SendOfferLetter(ctx, sess.AccessToken(), req)
	if atsclient.IsUnauthorized(err) {
		sess.Revoke()
		return models.ErrSessionExpired
	}
	return err
}

func (i impl) Close(sess *session.Session) {
	sess.CloseDraft(session.DraftOffer)
}
