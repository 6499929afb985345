package interview

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/metrics"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/models"
	interviewapimodels "hr-pipeline/models/api/interview"
	dbmodels "hr-pipeline/models/db"
)

const (
	errMsgSend          = "Failed to send interview invitation"
	errMsgAlreadyInvite = "Interview invitation has already been sent to this applicant"
	errMsgNoJob         = "Please select a job first"
)

type Provider interface {
	// Open открывает форму приглашения, список команд загружается асинхронно
	Open(ctx context.Context, sess *session.Session, email string) (interviewapimodels.ScheduleFormView, error)
	Form(sess *session.Session) (interviewapimodels.ScheduleFormView, error)
	Update(sess *session.Session, patch interviewapimodels.ScheduleDraftPatch) (interviewapimodels.ScheduleDraft, error)
	// Submit проверка формы без запросов во внешнюю систему, затем отправка приглашения
	Submit(ctx context.Context, sess *session.Session) error
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

func (i impl) Open(ctx context.Context, sess *session.Session, email string) (interviewapimodels.ScheduleFormView, error) {
	item, ok := sess.FindApplicant(email)
	if !ok {
		return interviewapimodels.ScheduleFormView{}, models.ErrApplicantNotFound
	}
	if !applicant.CanSchedule(item) {
		return interviewapimodels.ScheduleFormView{}, models.NewValidationError(errMsgAlreadyInvite)
	}
	sess.OpenDraft(session.DraftSchedule, item.Email)
	go i.loadTeams(context.WithoutCancel(ctx), sess, item.Email)
	return i.Form(sess)
}

// loadTeams ошибка загрузки не мешает работе с формой, список команд остается пустым
func (i impl) loadTeams(ctx context.Context, sess *session.Session, email string) {
	teams, err := i.client.ListTeams(ctx, sess)
	if err != nil {
		log.WithError(err).WithField("session_id", sess.ID()).Warn("ошибка загрузки списка команд")
		teams = nil
	}
	sess.SetTeams(email, teams)
}

func (i impl) Form(sess *session.Session) (interviewapimodels.ScheduleFormView, error) {
	draft, ok := sess.ScheduleDraft()
	if !ok {
		return interviewapimodels.ScheduleFormView{}, models.ErrDraftNotOpen
	}
	teams, _ := sess.Teams()
	if teams == nil {
		teams = []interviewapimodels.Team{}
	}
	return interviewapimodels.ScheduleFormView{
		Draft:  draft,
		Rounds: models.InterviewRounds,
		Teams:  teams,
	}, nil
}

func (i impl) Update(sess *session.Session, patch interviewapimodels.ScheduleDraftPatch) (interviewapimodels.ScheduleDraft, error) {
	var applyErr error
	draft, err := sess.UpdateSchedule(func(draft *interviewapimodels.ScheduleDraft) error {
		if draft.State == interviewapimodels.DraftStateSubmitting {
			return models.ErrUpdateInProgress
		}
		applyErr = draft.Apply(patch)
		draft.Error = ""
		if applyErr != nil {
			draft.Error = applyErr.Error()
		}
		return nil
	})
	if err != nil {
		return draft, err
	}
	return draft, applyErr
}

func (i impl) Submit(ctx context.Context, sess *session.Session) (err error) {
	current, ok := sess.ScheduleDraft()
	if !ok {
		return models.ErrDraftNotOpen
	}
	email := current.ApplicantEmail
	logger := log.WithField("session_id", sess.ID()).WithField("applicant_email", email)
	jobID := sess.SelectedJobID()
	item, found := sess.FindApplicant(email)
	org := sess.Org()

	// проверка и перевод в Submitting в одной блокировке, повторная отправка получает ErrUpdateInProgress
	var form interviewapimodels.InterviewForm
	var validationErr error
	_, err = sess.UpdateSchedule(func(draft *interviewapimodels.ScheduleDraft) error {
		if draft.ApplicantEmail != email {
			return models.ErrDraftNotOpen
		}
		if draft.State == interviewapimodels.DraftStateSubmitting {
			return models.ErrUpdateInProgress
		}
		if validationErr = draft.Validate(); validationErr != nil {
			draft.Error = validationErr.Error()
			return nil
		}
		if jobID == "" {
			return models.NewValidationError(errMsgNoJob)
		}
		if !found {
			return models.ErrApplicantNotFound
		}
		form = draft.ToForm(item, org, jobID)
		draft.State = interviewapimodels.DraftStateSubmitting
		draft.Error = ""
		return nil
	})
	if err != nil {
		return err
	}
	if validationErr != nil {
		return validationErr
	}
	defer func() { metrics.Workflow("interview", err) }()

	err = i.client.SendInterviewForm(ctx, sess, form)
	i.history.Save(sess, jobID, email, dbmodels.HistoryTypeInterview, actionhistoryhandler.Outcome(err), dbmodels.ActionChanges{
		Description: fmt.Sprintf("Приглашение на этап %s", form.Round),
		Data: []dbmodels.ActionChange{
			{Field: "round", NewValue: form.Round},
			{Field: "location_type", NewValue: form.LocationType},
			{Field: "team", NewValue: form.Team},
		},
	})
	if err != nil {
		logger.WithError(err).Warn("приглашение на интервью не отправлено")
		if errors.Is(err, models.ErrSessionExpired) {
			return err
		}
		msg := atsclient.Detail(err, errMsgSend)
		// поля формы сохраняются для повторной отправки
		_, _ = sess.UpdateSchedule(func(draft *interviewapimodels.ScheduleDraft) error {
			draft.State = interviewapimodels.DraftStateOpen
			draft.Error = msg
			return nil
		})
		i.notifier.Error(sess, msg)
		return models.NewRemoteError(msg, err)
	}

	sess.CloseDraftFor(session.DraftSchedule, email)
	i.notifier.Success(sess, fmt.Sprintf("Interview invitation sent to %s", item.GetName()))
	logger.Info("приглашение на интервью отправлено")
	if loadErr := i.applicants.LoadApplicants(ctx, sess, jobID); loadErr != nil {
		logger.WithError(loadErr).Warn("ошибка перезагрузки кандидатов после отправки приглашения")
	}
	return nil
}

func (i impl) Close(sess *session.Session) {
	sess.CloseDraft(session.DraftSchedule)
}
