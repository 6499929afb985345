package atsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	externalservices "hr-pipeline/lib/external-services"
	extapiauditstore "hr-pipeline/lib/external-services/ext-api-audit-store"
	"hr-pipeline/lib/metrics"
	authutils "hr-pipeline/lib/utils/auth-utils"
	initchecker "hr-pipeline/lib/utils/init-checker"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	interviewapimodels "hr-pipeline/models/api/interview"
	jobapimodels "hr-pipeline/models/api/job"
	offerapimodels "hr-pipeline/models/api/offer"
	reviewapimodels "hr-pipeline/models/api/review"
	transcriptapimodels "hr-pipeline/models/api/transcript"
	dbmodels "hr-pipeline/models/db"
)

// Credentials токены сессии рекрутера
type Credentials interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(accessToken, refreshToken string)
	// Revoke принудительный выход
	Revoke()
}

type Provider interface {
	ListOpenJobs(ctx context.Context, creds Credentials) ([]jobapimodels.Job, error)
	ListOngoingJobs(ctx context.Context, creds Credentials) ([]jobapimodels.Job, error)
	ListApplicants(ctx context.Context, creds Credentials, jobID string) ([]applicantapimodels.Applicant, error)
	UpdateApplicantStatus(ctx context.Context, creds Credentials, jobID, email string, status models.ApplicantStatus) error
	SendInterviewForm(ctx context.Context, creds Credentials, form interviewapimodels.InterviewForm) error
	// SendOfferLetter multipart запрос, токен передается явно. 401 возвращается как *APIError, без обновления токена
	SendOfferLetter(ctx context.Context, accessToken string, req offerapimodels.OfferLetterRequest) error
	CreateReviewRequest(ctx context.Context, creds Credentials, req reviewapimodels.ReviewRequest) error
	GetInterviewFeedback(ctx context.Context, creds Credentials, feedbackID string) (transcriptapimodels.TranscriptRecord, error)
	ListTeams(ctx context.Context, creds Credentials) ([]interviewapimodels.Team, error)
	// RefreshTokens обновляет токены и сохраняет их в creds
	RefreshTokens(ctx context.Context, creds Credentials) error
}

var Instance Provider

type Config struct {
	Host      string
	Timeout   time.Duration
	UserAgent string
}

type impl struct {
	host       string
	userAgent  string
	client     *http.Client
	auditStore extapiauditstore.Provider
	refreshing singleflight.Group
}

func NewProvider(cfg Config, auditStore extapiauditstore.Provider) {
	Instance = NewClient(cfg, auditStore)
}

func NewClient(cfg Config, auditStore extapiauditstore.Provider) Provider {
	instance := &impl{
		host:       cfg.Host,
		userAgent:  cfg.UserAgent,
		client:     &http.Client{Timeout: cfg.Timeout},
		auditStore: auditStore,
	}
	if instance.userAgent == "" {
		instance.userAgent = "HRPipeline/1.0"
	}
	initchecker.CheckInit(
		"auditStore", instance.auditStore,
	)
	return instance
}

const (
	openJobsPath         string = "%s/jobs/open"
	ongoingJobsPath      string = "%s/jobs/ongoing"
	applicantsPath       string = "%s/jobs/%v/applicants"
	applicantStatusPath  string = "%s/jobs/%v/applicants/%v/status"
	interviewFormPath    string = "%s/interviews/send-form"
	offerSendPath        string = "%s/offers/send"
	reviewRequestPath    string = "%s/review-requests"
	interviewFeedbackUri string = "%s/interview-feedback/%v"
	teamsPath            string = "%s/teams"
	refreshPath          string = "%s/auth/refresh"
)

const (
	serviceName string = "ATS"

	opOpenJobs      = "list_open_jobs"
	opOngoingJobs   = "list_ongoing_jobs"
	opApplicants    = "list_applicants"
	opStatus        = "update_applicant_status"
	opInterviewForm = "send_interview_form"
	opOffer         = "send_offer_letter"
	opReview        = "create_review_request"
	opFeedback      = "get_interview_feedback"
	opTeams         = "list_teams"
	opRefresh       = "refresh_token"
)

func (i *impl) ListOpenJobs(ctx context.Context, creds Credentials) ([]jobapimodels.Job, error) {
	uri := fmt.Sprintf(openJobsPath, i.host)
	resp := []jobapimodels.Job{}
	err := i.sendAuthorized(ctx, creds, opOpenJobs, http.MethodGet, uri, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (i *impl) ListOngoingJobs(ctx context.Context, creds Credentials) ([]jobapimodels.Job, error) {
	uri := fmt.Sprintf(ongoingJobsPath, i.host)
	resp := []jobapimodels.Job{}
	err := i.sendAuthorized(ctx, creds, opOngoingJobs, http.MethodGet, uri, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (i *impl) ListApplicants(ctx context.Context, creds Credentials, jobID string) ([]applicantapimodels.Applicant, error) {
	uri := fmt.Sprintf(applicantsPath, i.host, url.PathEscape(jobID))
	resp := []applicantapimodels.Applicant{}
	err := i.sendAuthorized(ctx, creds, opApplicants, http.MethodGet, uri, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (i *impl) UpdateApplicantStatus(ctx context.Context, creds Credentials, jobID, email string, status models.ApplicantStatus) error {
	uri := fmt.Sprintf(applicantStatusPath, i.host, url.PathEscape(jobID), url.PathEscape(email))
	body, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return errors.Wrap(err, "ошибка десериализации запроса")
	}
	rCtx := externalservices.GetAuditContext(ctx, uri, body)
	return i.sendAuthorized(rCtx, creds, opStatus, http.MethodPut, uri, body, nil)
}

func (i *impl) SendInterviewForm(ctx context.Context, creds Credentials, form interviewapimodels.InterviewForm) error {
	uri := fmt.Sprintf(interviewFormPath, i.host)
	body, err := json.Marshal(form)
	if err != nil {
		return errors.Wrap(err, "ошибка десериализации запроса")
	}
	rCtx := externalservices.GetAuditContext(ctx, uri, body)
	return i.sendAuthorized(rCtx, creds, opInterviewForm, http.MethodPost, uri, body, nil)
}

func (i *impl) SendOfferLetter(ctx context.Context, accessToken string, req offerapimodels.OfferLetterRequest) error {
	uri := fmt.Sprintf(offerSendPath, i.host)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fields := [][2]string{
		{"applicantEmail", req.ApplicantEmail},
		{"applicantName", req.ApplicantName},
		{"orgEmail", req.OrgEmail},
		{"orgName", req.OrgName},
		{"job_id", req.JobID},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return errors.Wrap(err, "ошибка формирования запроса")
		}
	}
	part, err := writer.CreateFormFile("offer_letter", req.FileName)
	if err != nil {
		return errors.Wrap(err, "ошибка формирования запроса")
	}
	if _, err = part.Write(req.FileBody); err != nil {
		return errors.Wrap(err, "ошибка формирования запроса")
	}
	if err = writer.Close(); err != nil {
		return errors.Wrap(err, "ошибка формирования запроса")
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, body)
	if err != nil {
		return errors.Wrap(err, "ошибка формирования запроса")
	}
	r.Header.Set("Content-Type", writer.FormDataContentType())
	if accessToken != "" {
		r.Header.Set("Authorization", "Bearer "+accessToken)
	}
	logger := log.
		WithField("external_request", uri).
		WithField("request_body", fmt.Sprintf("offer_letter=%v (%v bytes), applicantEmail=%v", req.FileName, len(req.FileBody), req.ApplicantEmail))
	rCtx := externalservices.GetAuditContext(ctx, uri, []byte(req.ApplicantEmail))
	return i.send(rCtx, logger, opOffer, r, nil)
}

func (i *impl) CreateReviewRequest(ctx context.Context, creds Credentials, req reviewapimodels.ReviewRequest) error {
	uri := fmt.Sprintf(reviewRequestPath, i.host)
	body, err := json.Marshal(req)
	if err != nil {
		return errors.Wrap(err, "ошибка десериализации запроса")
	}
	rCtx := externalservices.GetAuditContext(ctx, uri, body)
	return i.sendAuthorized(rCtx, creds, opReview, http.MethodPost, uri, body, nil)
}

func (i *impl) GetInterviewFeedback(ctx context.Context, creds Credentials, feedbackID string) (transcriptapimodels.TranscriptRecord, error) {
	uri := fmt.Sprintf(interviewFeedbackUri, i.host, url.PathEscape(feedbackID))
	resp := transcriptapimodels.TranscriptRecord{}
	err := i.sendAuthorized(ctx, creds, opFeedback, http.MethodGet, uri, nil, &resp)
	if err != nil {
		return transcriptapimodels.TranscriptRecord{}, err
	}
	if resp.FeedbackID == "" {
		resp.FeedbackID = feedbackID
	}
	return resp, nil
}

func (i *impl) ListTeams(ctx context.Context, creds Credentials) ([]interviewapimodels.Team, error) {
	uri := fmt.Sprintf(teamsPath, i.host)
	resp := []interviewapimodels.Team{}
	err := i.sendAuthorized(ctx, creds, opTeams, http.MethodGet, uri, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (i *impl) RefreshTokens(ctx context.Context, creds Credentials) error {
	refreshToken := creds.RefreshToken()
	if refreshToken == "" {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeFail).Inc()
		return errors.New("отсутствует токен обновления")
	}
	// параллельные запросы одной сессии обновляют токен один раз
	result, err, _ := i.refreshing.Do(refreshToken, func() (interface{}, error) {
		return i.requestTokens(ctx, refreshToken)
	})
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeFail).Inc()
		return err
	}
	tokens := result.(tokenResponse)
	creds.SetTokens(tokens.AccessToken, tokens.RefreshToken)
	metrics.TokenRefreshes.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

func (i *impl) requestTokens(ctx context.Context, refreshToken string) (tokenResponse, error) {
	uri := fmt.Sprintf(refreshPath, i.host)
	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return tokenResponse{}, errors.Wrap(err, "ошибка десериализации запроса")
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return tokenResponse{}, errors.Wrap(err, "ошибка формирования запроса")
	}
	r.Header.Set("Content-Type", "application/json")
	logger := log.WithField("external_request", uri)
	resp := tokenResponse{}
	if err = i.send(ctx, logger, opRefresh, r, &resp); err != nil {
		return tokenResponse{}, err
	}
	if resp.AccessToken == "" {
		return tokenResponse{}, errors.New("сервер не вернул токен доступа")
	}
	return resp, nil
}

// sendAuthorized общий помощник авторизованных запросов: bearer токен, при 401 одно обновление
// токена и один повтор. Повторный 401 или неудачное обновление завершают сессию
func (i *impl) sendAuthorized(ctx context.Context, creds Credentials, operation, method, uri string, body []byte, resp interface{}) error {
	logger := log.WithField("external_request", uri)
	if len(body) != 0 {
		logger = logger.WithField("request_body", string(body))
	}
	accessToken := creds.AccessToken()
	if accessToken == "" {
		logger.Warn("отсутствует токен доступа")
		creds.Revoke()
		return models.ErrSessionExpired
	}
	if authutils.IsTokenExpired(accessToken, time.Now()) {
		logger.Info("срок действия токена истек, обновляем")
		if err := i.RefreshTokens(ctx, creds); err != nil {
			logger.WithError(err).Warn("не удалось обновить токен доступа")
			creds.Revoke()
			return models.ErrSessionExpired
		}
		accessToken = creds.AccessToken()
	}

	err := i.sendWithToken(ctx, logger, operation, method, uri, body, accessToken, resp)
	if !IsUnauthorized(err) {
		return err
	}
	if err = i.RefreshTokens(ctx, creds); err != nil {
		logger.WithError(err).Warn("не удалось обновить токен доступа")
		creds.Revoke()
		return models.ErrSessionExpired
	}
	err = i.sendWithToken(ctx, logger, operation, method, uri, body, creds.AccessToken(), resp)
	if IsUnauthorized(err) {
		logger.Warn("повторный 401 после обновления токена")
		creds.Revoke()
		return models.ErrSessionExpired
	}
	return err
}

func (i *impl) sendWithToken(ctx context.Context, logger *log.Entry, operation, method, uri string, body []byte, accessToken string, resp interface{}) error {
	var reader io.Reader
	if len(body) != 0 {
		reader = bytes.NewReader(body)
	}
	r, err := http.NewRequestWithContext(ctx, method, uri, reader)
	if err != nil {
		return errors.Wrap(err, "ошибка формирования запроса")
	}
	if len(body) != 0 {
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("Authorization", "Bearer "+accessToken)
	return i.send(ctx, logger, operation, r, resp)
}

func (i *impl) send(ctx context.Context, logger *log.Entry, operation string, r *http.Request, resp interface{}) error {
	r.Header.Set("User-Agent", i.userAgent)
	r.Header.Set("Accept", "application/json")
	start := time.Now()
	response, err := i.client.Do(r)
	metrics.RemoteDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if response != nil {
		defer response.Body.Close()
	}
	// читаем Body только 1 раз
	responseBody, logger := getResponseBody(logger, response)
	logger = addStatusCode(logger, response)
	if err != nil {
		metrics.RemoteRequests.WithLabelValues(operation, metrics.OutcomeNetwork).Inc()
		logger.WithError(err).Error("ошибка отправки запроса в ATS")
		return errors.Wrap(err, "ошибка отправки запроса в ATS")
	}
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		metrics.RemoteRequests.WithLabelValues(operation, metrics.OutcomeSuccess).Inc()
		if resp != nil && len(bytes.TrimSpace(responseBody)) != 0 {
			err = json.Unmarshal(responseBody, resp)
			if err != nil {
				logger.WithError(err).Error("ошибка сериализации ответа")
				return errors.Wrap(err, "ошибка сериализации ответа")
			}
		}
		return nil
	}
	apiErr := &APIError{
		StatusCode: response.StatusCode,
		Detail:     parseDetail(responseBody),
	}
	if response.StatusCode == http.StatusUnauthorized {
		metrics.RemoteRequests.WithLabelValues(operation, metrics.OutcomeAuth).Inc()
		logger.Warn("ATS вернул 401")
		return apiErr
	}
	metrics.RemoteRequests.WithLabelValues(operation, metrics.OutcomeFail).Inc()
	logger.Error("Некорректный запрос в ATS")
	i.auditError(ctx, string(responseBody), response.StatusCode)
	return apiErr
}

func getResponseBody(logger *log.Entry, response *http.Response) ([]byte, *log.Entry) {
	if response != nil && response.Body != nil {
		responseBody, _ := io.ReadAll(response.Body)
		return responseBody, logger.WithField("response_body", string(responseBody))
	}
	return nil, logger
}

func addStatusCode(logger *log.Entry, response *http.Response) *log.Entry {
	if response != nil {
		return logger.WithField("response_status_code", response.StatusCode)
	}
	return logger
}

func (i *impl) auditError(ctx context.Context, response string, status int) {
	ctxData := externalservices.ExtractAuditData(ctx)
	if !ctxData.WithAudit {
		return
	}
	rec := dbmodels.ExtApiAudit{
		BaseSessionModel: dbmodels.BaseSessionModel{
			SessionID: ctxData.SessionID,
			OrgEmail:  ctxData.OrgEmail,
		},
		RecID:    ctxData.RecID,
		Service:  serviceName,
		Uri:      ctxData.Uri,
		Request:  ctxData.Request,
		Response: response,
		Status:   status,
	}
	if _, err := i.auditStore.Create(rec); err != nil {
		log.WithError(err).Warn("ошибка сохранения аудита запроса в ATS")
	}
}
