package status

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/metrics"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/utils/lock"
	"hr-pipeline/models"
	dbmodels "hr-pipeline/models/db"
)

const (
	errMsgUpdate        = "Failed to update applicant status"
	errMsgUnknownStatus = "Unknown applicant status"
	errMsgSameStatus    = "Applicant already has this status"
	errMsgTerminal      = "Status of a rejected applicant cannot be changed"
	errMsgNoJob         = "Please select a job first"
)

type Provider interface {
	// SetStatus смена статуса во внешней системе и перезагрузка кандидатов вакансии.
	// Локально статус не меняется до перезагрузки
	SetStatus(ctx context.Context, sess *session.Session, email, jobID string, status models.ApplicantStatus) error
	AllowedTransitions(from models.ApplicantStatus) []models.ApplicantStatus
}

var Instance Provider

func NewHandler(client atsclient.Provider, applicants applicant.Provider, locker lock.Provider, history actionhistoryhandler.Provider) {
	Instance = NewInstance(client, applicants, locker, history)
}

func NewInstance(client atsclient.Provider, applicants applicant.Provider, locker lock.Provider, history actionhistoryhandler.Provider) Provider {
	return impl{
		client:     client,
		applicants: applicants,
		locker:     locker,
		history:    history,
	}
}

type impl struct {
	client     atsclient.Provider
	applicants applicant.Provider
	locker     lock.Provider
	history    actionhistoryhandler.Provider
}

func (i impl) SetStatus(ctx context.Context, sess *session.Session, email, jobID string, status models.ApplicantStatus) (err error) {
	logger := log.WithField("session_id", sess.ID()).
		WithField("job_id", jobID).
		WithField("applicant_email", email).
		WithField("status", status)
	if jobID == "" {
		return models.NewValidationError(errMsgNoJob)
	}
	if !status.IsKnown() {
		return models.NewValidationError(errMsgUnknownStatus)
	}
	oldStatus := models.ApplicantStatus("")
	if current, ok := sess.FindApplicant(email); ok {
		oldStatus = current.Status
		if current.Status == status {
			return models.NewValidationError(errMsgSameStatus)
		}
		if current.Status.IsTerminal() {
			return models.NewValidationError(errMsgTerminal)
		}
	}

	key := applicant.UpdatingKey(sess.ID(), jobID, email)
	// блокировка держится до конца перезагрузки, чтобы контрол статуса не разблокировался раньше
	locked, err := lock.WithLock(ctx, i.locker, key, func() error {
		return i.update(ctx, logger, sess, email, jobID, oldStatus, status)
	})
	if !locked {
		if err != nil {
			logger.WithError(err).Error("ошибка блокировки кандидата")
			return errors.Wrap(err, "ошибка блокировки кандидата")
		}
		return models.ErrUpdateInProgress
	}
	return err
}

func (i impl) update(ctx context.Context, logger *log.Entry, sess *session.Session, email, jobID string, oldStatus, status models.ApplicantStatus) (err error) {
	defer func() { metrics.Workflow("status", err) }()

	err = i.client.UpdateApplicantStatus(ctx, sess, jobID, email, status)
	i.history.Save(sess, jobID, email, dbmodels.HistoryTypeStatusChange, actionhistoryhandler.Outcome(err), dbmodels.ActionChanges{
		Description: fmt.Sprintf("Смена статуса на %s", status.ToHuman()),
		Data: []dbmodels.ActionChange{
			{Field: "status", OldValue: oldStatus, NewValue: status},
		},
	})
	if err != nil {
		logger.WithError(err).Warn("статус кандидата не изменен")
		if errors.Is(err, models.ErrSessionExpired) {
			return err
		}
		return models.NewRemoteError(atsclient.Detail(err, errMsgUpdate), err)
	}
	logger.Info("статус кандидата изменен")
	if loadErr := i.applicants.LoadApplicants(ctx, sess, jobID); loadErr != nil {
		logger.WithError(loadErr).Warn("ошибка перезагрузки кандидатов после смены статуса")
	}
	return nil
}

// AllowedTransitions из любого незавершенного этапа в любой другой этап или rejected. Из rejected переходов нет
func (i impl) AllowedTransitions(from models.ApplicantStatus) []models.ApplicantStatus {
	if from.IsTerminal() {
		return []models.ApplicantStatus{}
	}
	result := make([]models.ApplicantStatus, 0, len(models.SettableStatuses))
	for _, status := range models.SettableStatuses {
		if status == from {
			continue
		}
		result = append(result, status)
	}
	return result
}
