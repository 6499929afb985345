package applicant

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/utils/helpers"
	"hr-pipeline/lib/utils/lock"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
)

const errMsgLoad = "Failed to load applicants"

type Provider interface {
	// LoadApplicants полная перезагрузка кандидатов вакансии
	LoadApplicants(ctx context.Context, sess *session.Session, jobID string) error
	// SelectJob смена вакансии и загрузка ее кандидатов
	SelectJob(ctx context.Context, sess *session.Session, jobID string) error
	// PipelineView текущее состояние воронки для отображения
	PipelineView(ctx context.Context, sess *session.Session) applicantapimodels.PipelineView
}

var Instance Provider

func NewHandler(client atsclient.Provider, locker lock.Provider) {
	Instance = NewInstance(client, locker)
}

func NewInstance(client atsclient.Provider, locker lock.Provider) Provider {
	return impl{
		client: client,
		locker: locker,
	}
}

type impl struct {
	client atsclient.Provider
	locker lock.Provider
}

// UpdatingKey ключ блокировки смены статуса кандидата
func UpdatingKey(sessionID, jobID, email string) string {
	return fmt.Sprintf("%s:%s:%s", sessionID, jobID, helpers.NormalizeEmail(email))
}

func (i impl) LoadApplicants(ctx context.Context, sess *session.Session, jobID string) error {
	tag := sess.BeginFetch(jobID)
	if jobID == "" {
		sess.ApplyApplicants(tag, nil)
		return nil
	}
	logger := log.WithField("session_id", sess.ID()).WithField("job_id", jobID)
	list, err := i.client.ListApplicants(ctx, sess, jobID)
	if err != nil {
		logger.WithError(err).Error("ошибка загрузки кандидатов")
		if errors.Is(err, models.ErrSessionExpired) {
			return err
		}
		msg := atsclient.Detail(err, errMsgLoad)
		sess.FailApplicants(tag, msg)
		return models.NewRemoteError(msg, err)
	}
	if !sess.ApplyApplicants(tag, list) {
		logger.Info("ответ для неактуальной вакансии отброшен")
		return nil
	}
	logger.WithField("count", len(list)).Debug("кандидаты загружены")
	return nil
}

func (i impl) SelectJob(ctx context.Context, sess *session.Session, jobID string) error {
	if jobID != "" {
		if _, ok := sess.FindJob(jobID); !ok {
			log.WithField("session_id", sess.ID()).WithField("job_id", jobID).Warn("вакансия не найдена в загруженном списке")
		}
	}
	sess.SelectJob(jobID)
	return i.LoadApplicants(ctx, sess, jobID)
}

func (i impl) PipelineView(ctx context.Context, sess *session.Session) applicantapimodels.PipelineView {
	jobID := sess.SelectedJobID()
	list, errMsg := sess.Applicants()
	pipeline := Partition(list)
	result := applicantapimodels.PipelineView{
		JobID:   jobID,
		Error:   errMsg,
		Total:   pipeline.Total(),
		Buckets: make([]applicantapimodels.BucketView, 0, len(models.PipelineBuckets)),
	}
	for _, bucket := range models.PipelineBuckets {
		items := pipeline[bucket]
		view := applicantapimodels.BucketView{
			Bucket:     bucket,
			Title:      bucket.ToHuman(),
			Count:      len(items),
			Applicants: make([]applicantapimodels.ApplicantView, 0, len(items)),
		}
		for _, item := range items {
			view.Applicants = append(view.Applicants, applicantapimodels.ApplicantView{
				Applicant:   item,
				Updating:    i.locker.IsLocked(ctx, UpdatingKey(sess.ID(), jobID, item.Email)),
				StatusLabel: item.Status.ToHuman(),
				CanSchedule: CanSchedule(item),
			})
		}
		result.Buckets = append(result.Buckets, view)
	}
	return result
}

// CanSchedule приглашение нельзя отправить повторно, пока кандидат в статусе invitation_sent
func CanSchedule(item applicantapimodels.Applicant) bool {
	return item.Status != models.ApplicantStatusInvitationSent
}
