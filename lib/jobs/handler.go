package jobs

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/session"
	"hr-pipeline/models"
	jobapimodels "hr-pipeline/models/api/job"
)

type Provider interface {
	// LoadJobs открытые и текущие вакансии одним списком. Ошибка одного источника дает пустую часть, не ошибку
	LoadJobs(ctx context.Context, sess *session.Session) []jobapimodels.Job
}

var Instance Provider

func NewHandler(client atsclient.Provider) {
	Instance = NewInstance(client)
}

func NewInstance(client atsclient.Provider) Provider {
	return impl{
		client: client,
	}
}

type impl struct {
	client atsclient.Provider
}

func (i impl) LoadJobs(ctx context.Context, sess *session.Session) []jobapimodels.Job {
	logger := log.WithField("session_id", sess.ID())
	var openJobs, ongoingJobs []jobapimodels.Job
	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		list, err := i.client.ListOpenJobs(ctx, sess)
		if err != nil {
			logger.WithError(err).Warn("ошибка получения открытых вакансий")
			return
		}
		openJobs = tagJobs(list, models.JobStatusOpen)
	}()
	go func() {
		defer wg.Done()
		list, err := i.client.ListOngoingJobs(ctx, sess)
		if err != nil {
			logger.WithError(err).Warn("ошибка получения текущих вакансий")
			return
		}
		ongoingJobs = tagJobs(list, models.JobStatusOngoing)
	}()
	wg.Wait()

	result := make([]jobapimodels.Job, 0, len(openJobs)+len(ongoingJobs))
	result = append(result, openJobs...)
	result = append(result, ongoingJobs...)
	sess.SetJobs(result)
	logger.WithField("count", len(result)).Debug("список вакансий загружен")
	return result
}

// tagJobs признак источника проставляется при объединении, значение от сервера не используется
func tagJobs(list []jobapimodels.Job, status models.JobStatus) []jobapimodels.Job {
	result := make([]jobapimodels.Job, 0, len(list))
	for _, job := range list {
		job.JobStatus = status
		result = append(result, job)
	}
	return result
}
