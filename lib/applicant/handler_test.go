package applicant

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/external-services/ats/atstest"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/utils/lock"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
)

func newSession() *session.Session {
	return session.New("s1", "Anna", jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}, "access", "refresh")
}

var backend = map[string][]applicantapimodels.Applicant{
	"job-1": {
		{Email: "a@x.com", Status: models.ApplicantStatusSelectedForInterview},
		{Email: "b@x.com"},
	},
	"job-2": {
		{Email: "c@x.com", Status: models.ApplicantStatusOfferSent},
	},
}

func TestLoadApplicants(t *testing.T) {
	ctx := context.Background()

	t.Run("пустая вакансия без запроса", func(t *testing.T) {
		fake := &atstest.Fake{}
		sess := newSession()
		require.NoError(t, NewInstance(fake, lock.NewMemoryLock()).LoadApplicants(ctx, sess, ""))
		require.Empty(t, fake.Calls())
		list, errMsg := sess.Applicants()
		require.Empty(t, list)
		require.Empty(t, errMsg)
	})
	t.Run("повторная загрузка дает тот же результат", func(t *testing.T) {
		fake := &atstest.Fake{Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
			return backend[jobID], nil
		}}
		handler := NewInstance(fake, lock.NewMemoryLock())
		sess := newSession()
		require.NoError(t, handler.SelectJob(ctx, sess, "job-1"))
		first := handler.PipelineView(ctx, sess)
		require.NoError(t, handler.LoadApplicants(ctx, sess, "job-1"))
		second := handler.PipelineView(ctx, sess)
		require.Equal(t, first, second)
		require.Equal(t, 2, second.Total)
		require.Equal(t, []string{"ListApplicants job-1", "ListApplicants job-1"}, fake.Calls())
	})
	t.Run("ошибка оставляет пустой список, не данные прошлой вакансии", func(t *testing.T) {
		fake := &atstest.Fake{Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
			if jobID == "job-2" {
				return nil, &atsclient.APIError{StatusCode: 500, Detail: "Job not found"}
			}
			return backend[jobID], nil
		}}
		handler := NewInstance(fake, lock.NewMemoryLock())
		sess := newSession()
		require.NoError(t, handler.SelectJob(ctx, sess, "job-1"))
		err := handler.SelectJob(ctx, sess, "job-2")
		require.Error(t, err)
		require.Equal(t, "Job not found", err.Error())
		view := handler.PipelineView(ctx, sess)
		require.Equal(t, "job-2", view.JobID)
		require.Equal(t, "Job not found", view.Error)
		require.Zero(t, view.Total)
	})
	t.Run("сетевая ошибка - общее сообщение", func(t *testing.T) {
		fake := &atstest.Fake{Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
			return nil, errors.New("connection refused")
		}}
		sess := newSession()
		err := NewInstance(fake, lock.NewMemoryLock()).SelectJob(ctx, sess, "job-1")
		require.EqualError(t, err, errMsgLoad)
	})
	t.Run("ответ для прежней вакансии отбрасывается", func(t *testing.T) {
		sess := newSession()
		var handler Provider
		fake := &atstest.Fake{Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
			if jobID == "job-1" {
				// пользователь переключил вакансию, пока шел запрос
				require.NoError(t, handler.SelectJob(ctx, sess, "job-2"))
			}
			return backend[jobID], nil
		}}
		handler = NewInstance(fake, lock.NewMemoryLock())
		require.NoError(t, handler.SelectJob(ctx, sess, "job-1"))
		view := handler.PipelineView(ctx, sess)
		require.Equal(t, "job-2", view.JobID)
		require.Equal(t, 1, view.Total)
		list, _ := sess.Applicants()
		require.Equal(t, "c@x.com", list[0].Email)
	})
}

func TestPipelineView(t *testing.T) {
	ctx := context.Background()
	locker := lock.NewMemoryLock()
	fake := &atstest.Fake{Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
		return []applicantapimodels.Applicant{
			{Email: "a@x.com", Status: models.ApplicantStatusInvitationSent},
			{Email: "b@x.com", Status: models.ApplicantStatusSelectedForInterview},
		}, nil
	}}
	handler := NewInstance(fake, locker)
	sess := newSession()
	require.NoError(t, handler.SelectJob(ctx, sess, "job-1"))
	ok, err := locker.TryLock(ctx, UpdatingKey(sess.ID(), "job-1", "B@x.com"))
	require.NoError(t, err)
	require.True(t, ok)

	view := handler.PipelineView(ctx, sess)
	require.Len(t, view.Buckets, len(models.PipelineBuckets))
	var conduct applicantapimodels.BucketView
	for _, bucket := range view.Buckets {
		if bucket.Bucket == models.BucketConductRounds {
			conduct = bucket
		}
	}
	require.Equal(t, 2, conduct.Count)
	require.False(t, conduct.Applicants[0].CanSchedule)
	require.False(t, conduct.Applicants[0].Updating)
	require.True(t, conduct.Applicants[1].CanSchedule)
	require.True(t, conduct.Applicants[1].Updating)
}
