package reviewapimodels

import (
	"net/mail"
	"strings"

	"hr-pipeline/models"
)

const (
	ErrMsgReviewerEmail        = "Please enter reviewer email"
	ErrMsgReviewerEmailInvalid = "Please enter a valid reviewer email"
)

type ReviewDraft struct {
	ApplicantEmail string `json:"applicant_email"` // Кандидат, для которого открыта форма
	ReviewerEmail  string `json:"reviewer_email"`  // Почта ревьюера
	Sending        bool   `json:"sending"`         // Идет отправка
	Error          string `json:"error,omitempty"` // Ошибка формы
}

func NewReviewDraft(email string) ReviewDraft {
	return ReviewDraft{ApplicantEmail: email}
}

func (d ReviewDraft) Validate() error {
	reviewer := strings.TrimSpace(d.ReviewerEmail)
	if reviewer == "" {
		return models.NewValidationError(ErrMsgReviewerEmail)
	}
	if _, err := mail.ParseAddress(reviewer); err != nil {
		return models.NewValidationError(ErrMsgReviewerEmailInvalid)
	}
	return nil
}

type ReviewerData struct {
	ReviewerEmail string `json:"reviewer_email"` // Почта ревьюера
}

// ReviewRequest тело запроса создания запроса на ревью
type ReviewRequest struct {
	JobID             string `json:"job_id"`
	ApplicantName     string `json:"applicant_name"`
	ApplicantEmail    string `json:"applicant_email"`
	ReviewerEmail     string `json:"reviewer_email"`
	ResumeUrl         string `json:"resume_url"`
	AdditionalDetails string `json:"additional_details"`
	OrgName           string `json:"org_name"`
	OrgEmail          string `json:"org_email"`
}

type ReviewResult struct {
	StatusUpdated bool   `json:"status_updated"` // Статус кандидата переведен в decision_pending_review
	Message       string `json:"message"`        // Текст уведомления
}
