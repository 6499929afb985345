package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	actionhistorystore "hr-pipeline/lib/action-history/store"
	"hr-pipeline/lib/applicant"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/external-services/ats/atstest"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/status"
	"hr-pipeline/lib/utils/lock"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
	reviewapimodels "hr-pipeline/models/api/review"
	wsmodels "hr-pipeline/models/ws"
)

type fixture struct {
	fake     *atstest.Fake
	hub      connectionhub.Provider
	handler  Provider
	sess     *session.Session
	requests []reviewapimodels.ReviewRequest
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		fake: &atstest.Fake{},
		hub:  connectionhub.NewHub(),
		sess: session.New("s1", "Anna", jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}, "access", "refresh"),
	}
	f.fake.Applicants = func(jobID string) ([]applicantapimodels.Applicant, error) {
		return []applicantapimodels.Applicant{
			{
				Name:   "Bob",
				Email:  "b@x.com",
				Status: models.ApplicantStatusDecisionPending,
				Profile: &applicantapimodels.Profile{
					ResumeUrl:         "https://cdn/bob.pdf",
					AdditionalDetails: "SKILLS\nGo: 5 years",
				},
			},
		}, nil
	}
	f.fake.ReviewRequest = func(req reviewapimodels.ReviewRequest) error {
		f.requests = append(f.requests, req)
		return nil
	}
	locker := lock.NewMemoryLock()
	applicants := applicant.NewInstance(f.fake, locker)
	history := actionhistoryhandler.NewInstance(actionhistorystore.NewInstance(nil))
	statuses := status.NewInstance(f.fake, applicants, locker, history)
	f.handler = NewInstance(f.fake, applicants, statuses, history, notify.NewNotifier(f.hub, nil, nil))
	require.NoError(t, applicants.SelectJob(context.Background(), f.sess, "job-1"))
	f.fake.Reset()
	return f
}

func (f *fixture) open(t *testing.T, reviewer string) {
	_, err := f.handler.Open(f.sess, "b@x.com")
	require.NoError(t, err)
	_, err = f.handler.SetReviewer(f.sess, reviewer)
	require.NoError(t, err)
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("проверка почты ревьюера без запроса", func(t *testing.T) {
		for _, tc := range []struct {
			reviewer string
			msg      string
		}{
			{reviewer: "", msg: reviewapimodels.ErrMsgReviewerEmail},
			{reviewer: "not-an-email", msg: reviewapimodels.ErrMsgReviewerEmailInvalid},
		} {
			f := newFixture(t)
			f.open(t, tc.reviewer)
			_, err := f.handler.Send(ctx, f.sess)
			require.True(t, models.IsValidationError(err))
			require.EqualError(t, err, tc.msg)
			require.Empty(t, f.fake.Calls())

			draft, err := f.handler.Draft(f.sess)
			require.NoError(t, err)
			require.Equal(t, tc.msg, draft.Error)
		}
	})
	t.Run("цепочка: запрос, статус, перезагрузка", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "lead@acme.io")

		result, err := f.handler.Send(ctx, f.sess)
		require.NoError(t, err)
		require.True(t, result.StatusUpdated)
		require.Equal(t, []string{
			"CreateReviewRequest b@x.com lead@acme.io",
			"UpdateApplicantStatus job-1 b@x.com decision_pending_review",
			"ListApplicants job-1",
		}, f.fake.Calls())
		require.Equal(t, "https://cdn/bob.pdf", f.requests[0].ResumeUrl)
		require.Equal(t, "SKILLS\nGo: 5 years", f.requests[0].AdditionalDetails)
		require.Equal(t, "Acme", f.requests[0].OrgName)
		require.Equal(t, session.DraftNone, f.sess.ActiveDraft().Kind)
	})
	t.Run("повторная отправка во время отправки отклоняется", func(t *testing.T) {
		f := newFixture(t)
		f.open(t, "lead@acme.io")
		started := make(chan struct{})
		release := make(chan struct{})
		f.fake.ReviewRequest = func(reviewapimodels.ReviewRequest) error {
			close(started)
			<-release
			return nil
		}
		done := make(chan error, 1)
		go func() {
			_, err := f.handler.Send(ctx, f.sess)
			done <- err
		}()
		<-started

		_, err := f.handler.Send(ctx, f.sess)
		require.ErrorIs(t, err, models.ErrUpdateInProgress)
		close(release)
		require.NoError(t, <-done)
		require.Equal(t, []string{
			"CreateReviewRequest b@x.com lead@acme.io",
			"UpdateApplicantStatus job-1 b@x.com decision_pending_review",
			"ListApplicants job-1",
		}, f.fake.Calls())
	})
	t.Run("ошибка запроса: статус не меняется", func(t *testing.T) {
		f := newFixture(t)
		f.fake.ReviewRequest = func(reviewapimodels.ReviewRequest) error {
			return &atsclient.APIError{StatusCode: 400, Detail: "Reviewer not found"}
		}
		f.open(t, "lead@acme.io")

		_, err := f.handler.Send(ctx, f.sess)
		require.EqualError(t, err, "Reviewer not found")
		require.Equal(t, []string{"CreateReviewRequest b@x.com lead@acme.io"}, f.fake.Calls())

		draft, err := f.handler.Draft(f.sess)
		require.NoError(t, err)
		require.False(t, draft.Sending)
		require.Equal(t, "Reviewer not found", draft.Error)
	})
	t.Run("ошибка статуса: частичный успех и перезагрузка", func(t *testing.T) {
		f := newFixture(t)
		f.fake.UpdateStatus = func(string, string, models.ApplicantStatus) error {
			return &atsclient.APIError{StatusCode: 500, Detail: "database is down"}
		}
		f.open(t, "lead@acme.io")

		result, err := f.handler.Send(ctx, f.sess)
		require.NoError(t, err)
		require.False(t, result.StatusUpdated)
		require.Equal(t, "Review request sent, but status update failed: database is down", result.Message)
		require.Equal(t, []string{
			"CreateReviewRequest b@x.com lead@acme.io",
			"UpdateApplicantStatus job-1 b@x.com decision_pending_review",
			"ListApplicants job-1",
		}, f.fake.Calls())
		require.Equal(t, session.DraftNone, f.sess.ActiveDraft().Kind)

		pending := f.hub.Pending("s1")
		require.Len(t, pending, 1)
		require.Equal(t, string(wsmodels.CodeInfo), pending[0].Code)
	})
}
