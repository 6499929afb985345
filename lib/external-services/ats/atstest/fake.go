// Package atstest подменный клиент ATS для тестов обработчиков
package atstest

import (
	"context"
	"fmt"
	"sync"

	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	interviewapimodels "hr-pipeline/models/api/interview"
	jobapimodels "hr-pipeline/models/api/job"
	offerapimodels "hr-pipeline/models/api/offer"
	reviewapimodels "hr-pipeline/models/api/review"
	transcriptapimodels "hr-pipeline/models/api/transcript"
)

// Fake записывает вызовы в порядке поступления. Поведение задается функциями, по умолчанию успех
type Fake struct {
	mu    sync.Mutex
	calls []string

	OpenJobs          func() ([]jobapimodels.Job, error)
	OngoingJobs       func() ([]jobapimodels.Job, error)
	Applicants        func(jobID string) ([]applicantapimodels.Applicant, error)
	UpdateStatus      func(jobID, email string, status models.ApplicantStatus) error
	InterviewForm     func(form interviewapimodels.InterviewForm) error
	OfferLetter       func(accessToken string, req offerapimodels.OfferLetterRequest) error
	ReviewRequest     func(req reviewapimodels.ReviewRequest) error
	InterviewFeedback func(feedbackID string) (transcriptapimodels.TranscriptRecord, error)
	Teams             func() ([]interviewapimodels.Team, error)
	Refresh           func(creds atsclient.Credentials) error
}

var _ atsclient.Provider = (*Fake)(nil)

func (f *Fake) record(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *Fake) ListOpenJobs(_ context.Context, _ atsclient.Credentials) ([]jobapimodels.Job, error) {
	f.record("ListOpenJobs")
	if f.OpenJobs == nil {
		return nil, nil
	}
	return f.OpenJobs()
}

func (f *Fake) ListOngoingJobs(_ context.Context, _ atsclient.Credentials) ([]jobapimodels.Job, error) {
	f.record("ListOngoingJobs")
	if f.OngoingJobs == nil {
		return nil, nil
	}
	return f.OngoingJobs()
}

func (f *Fake) ListApplicants(_ context.Context, _ atsclient.Credentials, jobID string) ([]applicantapimodels.Applicant, error) {
	f.record("ListApplicants %s", jobID)
	if f.Applicants == nil {
		return nil, nil
	}
	return f.Applicants(jobID)
}

func (f *Fake) UpdateApplicantStatus(_ context.Context, _ atsclient.Credentials, jobID, email string, status models.ApplicantStatus) error {
	f.record("UpdateApplicantStatus %s %s %s", jobID, email, status)
	if f.UpdateStatus == nil {
		return nil
	}
	return f.UpdateStatus(jobID, email, status)
}

func (f *Fake) SendInterviewForm(_ context.Context, _ atsclient.Credentials, form interviewapimodels.InterviewForm) error {
	f.record("SendInterviewForm %s", form.ApplicantEmail)
	if f.InterviewForm == nil {
		return nil
	}
	return f.InterviewForm(form)
}

func (f *Fake) SendOfferLetter(_ context.Context, accessToken string, req offerapimodels.OfferLetterRequest) error {
	f.record("SendOfferLetter %s %s", req.ApplicantEmail, accessToken)
	if f.OfferLetter == nil {
		return nil
	}
	return f.OfferLetter(accessToken, req)
}

func (f *Fake) CreateReviewRequest(_ context.Context, _ atsclient.Credentials, req reviewapimodels.ReviewRequest) error {
	f.record("CreateReviewRequest %s %s", req.ApplicantEmail, req.ReviewerEmail)
	if f.ReviewRequest == nil {
		return nil
	}
	return f.ReviewRequest(req)
}

func (f *Fake) GetInterviewFeedback(_ context.Context, _ atsclient.Credentials, feedbackID string) (transcriptapimodels.TranscriptRecord, error) {
	f.record("GetInterviewFeedback %s", feedbackID)
	if f.InterviewFeedback == nil {
		return transcriptapimodels.TranscriptRecord{FeedbackID: feedbackID}, nil
	}
	return f.InterviewFeedback(feedbackID)
}

func (f *Fake) ListTeams(_ context.Context, _ atsclient.Credentials) ([]interviewapimodels.Team, error) {
	f.record("ListTeams")
	if f.Teams == nil {
		return nil, nil
	}
	return f.Teams()
}

func (f *Fake) RefreshTokens(_ context.Context, creds atsclient.Credentials) error {
	f.record("RefreshTokens")
	if f.Refresh == nil {
		creds.SetTokens("refreshed-"+creds.AccessToken(), "")
		return nil
	}
	return f.Refresh(creds)
}
