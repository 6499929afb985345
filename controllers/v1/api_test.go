package apiv1

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"hr-pipeline/config"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	actionhistorystore "hr-pipeline/lib/action-history/store"
	"hr-pipeline/lib/applicant"
	xlsexport "hr-pipeline/lib/export/xls"
	"hr-pipeline/lib/external-services/ats/atsclient"
	"hr-pipeline/lib/external-services/ats/atstest"
	"hr-pipeline/lib/interview"
	"hr-pipeline/lib/jobs"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/offer"
	"hr-pipeline/lib/review"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/status"
	"hr-pipeline/lib/transcript"
	"hr-pipeline/lib/utils/lock"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	"hr-pipeline/middleware"
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
	transcriptapimodels "hr-pipeline/models/api/transcript"
)

type testApi struct {
	app   *fiber.App
	fake  *atstest.Fake
	token string
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApi(t *testing.T) *testApi {
	conf := &config.Configuration{}
	conf.Auth.JWTSecret = "test-secret"
	conf.Auth.JWTExpireInSec = 3600
	config.Conf = conf

	fake := &atstest.Fake{
		OpenJobs: func() ([]jobapimodels.Job, error) {
			return []jobapimodels.Job{{JobID: "job-1", Role: "Go developer"}}, nil
		},
		Applicants: func(jobID string) ([]applicantapimodels.Applicant, error) {
			return []applicantapimodels.Applicant{
				{Name: "Bob", Email: "b@x.com", Status: models.ApplicantStatusSelectedForInterview},
				{Name: "Ann", Email: "a@x.com"},
			}, nil
		},
		InterviewFeedback: func(feedbackID string) (transcriptapimodels.TranscriptRecord, error) {
			return transcriptapimodels.TranscriptRecord{
				FeedbackID: feedbackID,
				Transcript: []transcriptapimodels.Turn{{Role: "assistant", Text: "Hello", Timestamp: "00:00"}},
			}, nil
		},
	}
	locker := lock.NewMemoryLock()
	connectionhub.Instance = connectionhub.NewHub()
	notify.Instance = notify.NewNotifier(connectionhub.Instance, nil, nil)
	session.Instance = session.NewRegistry(nil, connectionhub.Instance.SendClose)
	actionhistoryhandler.Instance = actionhistoryhandler.NewInstance(actionhistorystore.NewInstance(nil))
	xlsexport.Instance = xlsexport.NewInstance()
	jobs.Instance = jobs.NewInstance(fake)
	applicant.Instance = applicant.NewInstance(fake, locker)
	status.Instance = status.NewInstance(fake, applicant.Instance, locker, actionhistoryhandler.Instance)
	interview.Instance = interview.NewInstance(fake, applicant.Instance, actionhistoryhandler.Instance, notify.Instance)
	offer.Instance = offer.NewInstance(fake, applicant.Instance, actionhistoryhandler.Instance, notify.Instance)
	review.Instance = review.NewInstance(fake, applicant.Instance, status.Instance, actionhistoryhandler.Instance, notify.Instance)

	app := fiber.New()
	authHandlers := []fiber.Handler{middleware.Authorization(conf.Auth.JWTSecret), middleware.SessionRequired(session.Instance)}
	InitSessionRouters(app, authHandlers...)
	authorized := app.Group("", authHandlers...)
	InitJobsRouters(authorized)
	InitApplicantRouters(authorized)
	InitDraftRouters(authorized)
	InitInterviewRouters(authorized)
	InitOfferRouters(authorized)
	InitReviewRouters(authorized)
	InitTranscriptRouters(authorized, transcript.NewInstance(fake, notify.Instance))

	api := &testApi{app: app, fake: fake}
	resp, body := api.do(t, fiber.MethodPost, "/session", map[string]string{
		"user_name":     "Anna",
		"org_name":      "Acme",
		"org_email":     "hr@acme.io",
		"access_token":  "access",
		"refresh_token": "refresh",
	})
	require.Equal(t, fiber.StatusOK, resp)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &login))
	api.token = login.Token
	return api
}

func (a *testApi) do(t *testing.T, method, path string, payload interface{}) (int, response) {
	code, raw := a.doRaw(t, method, path, payload)
	result := response{}
	require.NoError(t, json.Unmarshal(raw, &result), string(raw))
	return code, result
}

func (a *testApi) doRaw(t *testing.T, method, path string, payload interface{}) (int, []byte) {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if a.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestPipelineApi(t *testing.T) {
	api := newTestApi(t)

	code, body := api.do(t, fiber.MethodGet, "/jobs", nil)
	require.Equal(t, fiber.StatusOK, code)
	var list []jobapimodels.Job
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list, 1)
	require.Equal(t, models.JobStatusOpen, list[0].JobStatus)

	code, body = api.do(t, fiber.MethodPut, "/jobs/select?job_id=job-1", nil)
	require.Equal(t, fiber.StatusOK, code)
	var view applicantapimodels.PipelineView
	require.NoError(t, json.Unmarshal(body.Data, &view))
	require.Equal(t, 2, view.Total)

	t.Run("тот же статус - 400 без запроса", func(t *testing.T) {
		api.fake.Reset()
		code, body := api.do(t, fiber.MethodPut, "/applicants/status", applicantapimodels.StatusChangeRequest{
			Email:  "b@x.com",
			Status: string(models.ApplicantStatusSelectedForInterview),
		})
		require.Equal(t, fiber.StatusBadRequest, code)
		require.Equal(t, "Applicant already has this status", body.Message)
		require.Empty(t, api.fake.Calls())
	})
	t.Run("ошибка сервера - 502 с detail", func(t *testing.T) {
		api.fake.UpdateStatus = func(string, string, models.ApplicantStatus) error {
			return &atsclient.APIError{StatusCode: 422, Detail: "Transition is not allowed"}
		}
		defer func() { api.fake.UpdateStatus = nil }()
		code, body := api.do(t, fiber.MethodPut, "/applicants/status", applicantapimodels.StatusChangeRequest{
			Email:  "b@x.com",
			Status: string(models.ApplicantStatusSelected),
		})
		require.Equal(t, fiber.StatusBadGateway, code)
		require.Equal(t, "Transition is not allowed", body.Message)
	})
	t.Run("ask_for_review открывает форму", func(t *testing.T) {
		api.fake.Reset()
		code, _ := api.do(t, fiber.MethodPut, "/applicants/status", applicantapimodels.StatusChangeRequest{
			Email:  "a@x.com",
			Status: models.StatusOptionAskForReview,
		})
		require.Equal(t, fiber.StatusOK, code)
		require.Empty(t, api.fake.Calls())

		code, body := api.do(t, fiber.MethodGet, "/draft", nil)
		require.Equal(t, fiber.StatusOK, code)
		var draft struct {
			Kind           string `json:"kind"`
			ApplicantEmail string `json:"applicant_email"`
		}
		require.NoError(t, json.Unmarshal(body.Data, &draft))
		require.Equal(t, "review", draft.Kind)
		require.Equal(t, "a@x.com", draft.ApplicantEmail)
	})
	t.Run("неизвестный кандидат - 404", func(t *testing.T) {
		code, _ := api.do(t, fiber.MethodPost, "/offer/open?email=nobody@x.com", nil)
		require.Equal(t, fiber.StatusNotFound, code)
	})
	t.Run("выгрузка транскрипта в txt", func(t *testing.T) {
		code, raw := api.doRaw(t, fiber.MethodGet, "/transcript/fb-1/export?format=txt", nil)
		require.Equal(t, fiber.StatusOK, code)
		require.Equal(t, "[00:00] Interviewer: Hello\n", string(raw))
	})
	t.Run("после выхода - 401", func(t *testing.T) {
		code, _ := api.do(t, fiber.MethodDelete, "/session", nil)
		require.Equal(t, fiber.StatusOK, code)
		code, _ = api.do(t, fiber.MethodGet, "/jobs", nil)
		require.Equal(t, fiber.StatusUnauthorized, code)
	})
}
