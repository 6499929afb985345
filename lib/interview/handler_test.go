package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	actionhistorystore "hr-pipeline/lib/action-history/store"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/external-services/ats/atstest"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/utils/lock"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	interviewapimodels "hr-pipeline/models/api/interview"
	jobapimodels "hr-pipeline/models/api/job"
	wsmodels "hr-pipeline/models/ws"
)

type fixture struct {
	fake    *atstest.Fake
	hub     connectionhub.Provider
	handler Provider
	sess    *session.Session
	forms   []interviewapimodels.InterviewForm
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		fake: &atstest.Fake{},
		hub:  connectionhub.NewHub(),
		sess: session.New("s1", "Anna", jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}, "access", "refresh"),
	}
	f.fake.Applicants = func(jobID string) ([]applicantapimodels.Applicant, error) {
		return []applicantapimodels.Applicant{
			{Name: "Bob", Email: "b@x.com", Status: models.ApplicantStatusSelectedForInterview},
			{Name: "Sent", Email: "s@x.com", Status: models.ApplicantStatusInvitationSent},
		}, nil
	}
	f.fake.Teams = func() ([]interviewapimodels.Team, error) {
		return []interviewapimodels.Team{{TeamID: "t1", TeamName: "Core"}}, nil
	}
	f.fake.InterviewForm = func(form interviewapimodels.InterviewForm) error {
		f.forms = append(f.forms, form)
		return nil
	}
	applicants := applicant.NewInstance(f.fake, lock.NewMemoryLock())
	history := actionhistoryhandler.NewInstance(actionhistorystore.NewInstance(nil))
	f.handler = NewInstance(f.fake, applicants, history, notify.NewNotifier(f.hub, nil, nil))
	require.NoError(t, applicants.SelectJob(context.Background(), f.sess, "job-1"))
	return f
}

// open открывает форму и дожидается загрузки команд, после чего очищает журнал вызовов
func (f *fixture) open(t *testing.T, email string) {
	_, err := f.handler.Open(context.Background(), f.sess, email)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, loading := f.sess.Teams()
		return !loading
	}, time.Second, time.Millisecond)
	f.fake.Reset()
}

func ptr[T any](v T) *T {
	return &v
}

func TestOpen(t *testing.T) {
	t.Run("команды загружаются асинхронно", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "b@x.com")
		view, err := f.handler.Form(f.sess)
		require.NoError(t, err)
		require.Equal(t, []interviewapimodels.Team{{TeamID: "t1", TeamName: "Core"}}, view.Teams)
		require.Equal(t, models.InterviewRounds, view.Rounds)
		require.Equal(t, "b@x.com", view.Draft.ApplicantEmail)
	})
	t.Run("ошибка загрузки команд не мешает форме", func(t *testing.T) {
		f := newFixture(t)
		f.fake.Teams = func() ([]interviewapimodels.Team, error) {
			return nil, &atsclient.APIError{StatusCode: 500}
		}
		f.open(t, "b@x.com")
		view, err := f.handler.Form(f.sess)
		require.NoError(t, err)
		require.Empty(t, view.Teams)
	})
	t.Run("повторное приглашение недоступно", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Open(context.Background(), f.sess, "s@x.com")
		require.True(t, models.IsValidationError(err))
		require.Equal(t, session.DraftNone, f.sess.ActiveDraft().Kind)
	})
	t.Run("неизвестный кандидат", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.handler.Open(context.Background(), f.sess, "nobody@x.com")
		require.ErrorIs(t, err, models.ErrApplicantNotFound)
	})
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("без типа локации - отказ без запроса", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "b@x.com")
		_, err := f.handler.Update(f.sess, interviewapimodels.ScheduleDraftPatch{
			Round:         ptr(models.RoundTechnical1),
			Team:          ptr(""),
			LocationType:  ptr(models.LocationType("")),
			IsAIInterview: ptr(false),
		})
		require.NoError(t, err)

		err = f.handler.Submit(ctx, f.sess)
		require.True(t, models.IsValidationError(err))
		require.EqualError(t, err, "Please select interview location type (Online or Offline)")
		require.Empty(t, f.fake.Calls())

		draft, ok := f.sess.ScheduleDraft()
		require.True(t, ok)
		require.Equal(t, "Please select interview location type (Online or Offline)", draft.Error)
		require.Equal(t, interviewapimodels.DraftStateOpen, draft.State)
	})
	t.Run("успех: форма закрыта, уведомление, перезагрузка", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "b@x.com")
		_, err := f.handler.Update(f.sess, interviewapimodels.ScheduleDraftPatch{
			Round:        ptr(models.RoundTechnical2),
			Team:         ptr("Core"),
			LocationType: ptr(models.LocationTypeOffline),
		})
		require.NoError(t, err)

		require.NoError(t, f.handler.Submit(ctx, f.sess))
		require.Equal(t, []string{"SendInterviewForm b@x.com", "ListApplicants job-1"}, f.fake.Calls())
		require.Equal(t, interviewapimodels.InterviewForm{
			ApplicantName:  "Bob",
			ApplicantEmail: "b@x.com",
			Round:          "Technical Round 2",
			Team:           "Core",
			OrgName:        "Acme",
			OrgEmail:       "hr@acme.io",
			JobID:          "job-1",
			LocationType:   models.LocationTypeOffline,
		}, f.forms[0])
		require.Equal(t, session.DraftNone, f.sess.ActiveDraft().Kind)
		pending := f.hub.Pending("s1")
		require.Len(t, pending, 1)
		require.Equal(t, string(wsmodels.CodeSuccess), pending[0].Code)
	})
	t.Run("AI интервью: ai_online без команды", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "b@x.com")
		_, err := f.handler.Update(f.sess, interviewapimodels.ScheduleDraftPatch{
			Round:         ptr(models.RoundInitialScreening),
			IsAIInterview: ptr(true),
		})
		require.NoError(t, err)
		require.NoError(t, f.handler.Submit(ctx, f.sess))
		require.Equal(t, models.LocationTypeAIOnline, f.forms[0].LocationType)
		require.True(t, f.forms[0].IsAIInterview)
		require.Empty(t, f.forms[0].Team)
	})
	t.Run("ошибка сервера: поля сохраняются", func(t *testing.T) {
		f := newFixture(t)
		f.fake.InterviewForm = func(form interviewapimodels.InterviewForm) error {
			return &atsclient.APIError{StatusCode: 409, Detail: "Interview already scheduled"}
		}
		f.open(t, "b@x.com")
		_, err := f.handler.Update(f.sess, interviewapimodels.ScheduleDraftPatch{
			Round:        ptr(models.RoundManagerial),
			Team:         ptr("Core"),
			LocationType: ptr(models.LocationTypeOnline),
		})
		require.NoError(t, err)

		err = f.handler.Submit(ctx, f.sess)
		require.EqualError(t, err, "Interview already scheduled")
		require.Equal(t, []string{"SendInterviewForm b@x.com"}, f.fake.Calls())

		draft, ok := f.sess.ScheduleDraft()
		require.True(t, ok)
		require.Equal(t, interviewapimodels.DraftStateOpen, draft.State)
		require.Equal(t, "Interview already scheduled", draft.Error)
		require.Equal(t, models.RoundManagerial, draft.Round)
		require.Equal(t, "Core", draft.Team)
		require.Equal(t, models.LocationTypeOnline, draft.LocationType)

		pending := f.hub.Pending("s1")
		require.Len(t, pending, 1)
		require.Equal(t, string(wsmodels.CodeError), pending[0].Code)
		require.Equal(t, "Interview already scheduled", pending[0].Msg)
	})
	t.Run("форма не открыта", func(t *testing.T) {
		f := newFixture(t)
		require.ErrorIs(t, f.handler.Submit(ctx, f.sess), models.ErrDraftNotOpen)
	})
	t.Run("повторная отправка во время отправки отклоняется", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "b@x.com")
		_, err := f.handler.Update(f.sess, interviewapimodels.ScheduleDraftPatch{
			Round:        ptr(models.RoundManagerial),
			Team:         ptr("Core"),
			LocationType: ptr(models.LocationTypeOnline),
		})
		require.NoError(t, err)
		started := make(chan struct{})
		release := make(chan struct{})
		f.fake.InterviewForm = func(form interviewapimodels.InterviewForm) error {
			close(started)
			<-release
			return nil
		}
		done := make(chan error, 1)
		go func() { done <- f.handler.Submit(ctx, f.sess) }()
		<-started

		require.ErrorIs(t, f.handler.Submit(ctx, f.sess), models.ErrUpdateInProgress)
		close(release)
		require.NoError(t, <-done)
		require.Equal(t, []string{"SendInterviewForm b@x.com", "ListApplicants job-1"}, f.fake.Calls())
	})
}
