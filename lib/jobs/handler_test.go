package jobs

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"hr-pipeline/lib/external-services/ats/atstest"
	"hr-pipeline/lib/session"
	"hr-pipeline/models"
	jobapimodels "hr-pipeline/models/api/job"
)

func newSession() *session.Session {
	return session.New("s1", "Anna", jobapimodels.Company{Name: "Acme", Email: "hr@acme.io"}, "access", "refresh")
}

func TestLoadJobs(t *testing.T) {
	open := func() ([]jobapimodels.Job, error) {
		return []jobapimodels.Job{{JobID: "o2", Role: "Go dev"}, {JobID: "o1", Role: "QA"}}, nil
	}
	ongoing := func() ([]jobapimodels.Job, error) {
		return []jobapimodels.Job{{JobID: "g1", Role: "PM", JobStatus: models.JobStatusOpen}}, nil
	}
	fail := func() ([]jobapimodels.Job, error) {
		return nil, errors.New("boom")
	}

	t.Run("открытые, затем текущие, порядок сервера", func(t *testing.T) {
		sess := newSession()
		list := NewInstance(&atstest.Fake{OpenJobs: open, OngoingJobs: ongoing}).LoadJobs(context.Background(), sess)
		require.Equal(t, []string{"o2", "o1", "g1"}, jobIDs(list))
		require.Equal(t, models.JobStatusOpen, list[0].JobStatus)
		require.Equal(t, models.JobStatusOngoing, list[2].JobStatus)
		require.Equal(t, list, sess.Jobs())
	})
	t.Run("ошибка одного источника", func(t *testing.T) {
		list := NewInstance(&atstest.Fake{OpenJobs: fail, OngoingJobs: ongoing}).LoadJobs(context.Background(), newSession())
		require.Equal(t, []string{"g1"}, jobIDs(list))

		list = NewInstance(&atstest.Fake{OpenJobs: open, OngoingJobs: fail}).LoadJobs(context.Background(), newSession())
		require.Equal(t, []string{"o2", "o1"}, jobIDs(list))
	})
	t.Run("ошибка обоих источников", func(t *testing.T) {
		list := NewInstance(&atstest.Fake{OpenJobs: fail, OngoingJobs: fail}).LoadJobs(context.Background(), newSession())
		require.NotNil(t, list)
		require.Empty(t, list)
	})
}

func jobIDs(list []jobapimodels.Job) []string {
	result := []string{}
	for _, job := range list {
		result = append(result, job.JobID)
	}
	return result
}
