package applicantapimodels

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"hr-pipeline/models"
)

type Profile struct {
	ResumeUrl         string `json:"resume_url,omitempty"`         // Ссылка на резюме
	AdditionalDetails string `json:"additional_details,omitempty"` // Дополнительная информация
}

type Applicant struct {
	ID                string                 `json:"_id"`                          // Идентификатор кандидата
	JobID             string                 `json:"job_id"`                       // Идентификатор вакансии
	Name              string                 `json:"name"`                         // Имя
	Email             string                 `json:"email"`                        // Емайл, ключ для всех изменений
	Status            models.ApplicantStatus `json:"status"`                       // Статус кандидата
	AppliedAt         string                 `json:"applied_at"`                   // Дата отклика
	ResumeUrl         string                 `json:"resume_url,omitempty"`         // Ссылка на резюме
	AdditionalDetails string                 `json:"additional_details,omitempty"` // Дополнительная информация
	OngoingRounds     []Round                `json:"ongoing_rounds"`               // Назначенные, но не завершенные этапы
	PreviousRounds    []Round                `json:"previous_rounds"`              // Завершенные этапы
	Profile           *Profile               `json:"profile,omitempty"`            // Профиль, запасной источник резюме и доп. информации
}

// GetResumeUrl ссылка на резюме, если на верхнем уровне пусто - берем из профиля
func (a Applicant) GetResumeUrl() string {
	if a.ResumeUrl != "" {
		return a.ResumeUrl
	}
	if a.Profile != nil {
		return a.Profile.ResumeUrl
	}
	return ""
}

// GetAdditionalDetails доп. информация, если на верхнем уровне пусто - берем из профиля
func (a Applicant) GetAdditionalDetails() string {
	if a.AdditionalDetails != "" {
		return a.AdditionalDetails
	}
	if a.Profile != nil {
		return a.Profile.AdditionalDetails
	}
	return ""
}

func (a Applicant) GetName() string {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return a.Email
	}
	return name
}

type Round struct {
	Round             string              `json:"round"`                        // Название этапа
	Type              string              `json:"type,omitempty"`               // Тип этапа (ai_interview)
	Status            string              `json:"status,omitempty"`             // Статус этапа (scheduled)
	Team              string              `json:"team,omitempty"`               // Команда
	InterviewerName   string              `json:"interviewer_name,omitempty"`   // Интервьюер
	InterviewerEmail  string              `json:"interviewer_email,omitempty"`  // Почта интервьюера
	InterviewDate     string              `json:"interview_date,omitempty"`     // Дата интервью
	InterviewTime     string              `json:"interview_time,omitempty"`     // Время интервью
	LocationType      models.LocationType `json:"location_type,omitempty"`      // online/offline/ai_online
	MeetingLink       string              `json:"meeting_link,omitempty"`       // Ссылка на встречу
	Location          string              `json:"location,omitempty"`           // Адрес
	FeedbackID        string              `json:"feedback_id,omitempty"`        // Ссылка на транскрипт AI интервью
	RecordingPath     string              `json:"recording_path,omitempty"`     // Путь к записи
	Scores            map[string]int      `json:"scores,omitempty"`             // Оценки по критериям 1-5
	Comments          string              `json:"comments,omitempty"`           // Комментарии
	InterviewOutcome  string              `json:"interview_outcome,omitempty"`  // Результат
	CandidateAttended *FlexBool           `json:"candidate_attended,omitempty"` // Кандидат пришел
	Reason            string              `json:"reason,omitempty"`             // Причина
}

func (r Round) IsAIInterview() bool {
	return r.Type == models.RoundTypeAIInterview
}

func (r Round) IsScheduled() bool {
	return r.Status == models.RoundStatusScheduled
}

func (r Round) HasTranscript() bool {
	return r.FeedbackID != ""
}

// AverageScore среднее по переданным критериям, округление до одного знака
func (r Round) AverageScore() (avg float64, ok bool) {
	if len(r.Scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, score := range r.Scores {
		sum += score
	}
	avg = float64(sum) / float64(len(r.Scores))
	return math.Round(avg*10) / 10, true
}

// AverageScoreText среднее для отображения, "-" если оценок нет
func (r Round) AverageScoreText() string {
	avg, ok := r.AverageScore()
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(avg, 'f', 1, 64)
}

// FlexBool бэкенд присылает как true/false, так и "yes"/"no"
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var boolValue bool
	if err := json.Unmarshal(data, &boolValue); err == nil {
		*b = FlexBool(boolValue)
		return nil
	}
	var strValue string
	if err := json.Unmarshal(data, &strValue); err != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(strValue)) {
	case "yes", "true", "1", "attended":
		*b = true
	default:
		*b = false
	}
	return nil
}

type ApplicantView struct {
	Applicant
	Updating    bool   `json:"updating"`     // Идет смена статуса, контрол статуса заблокирован
	StatusLabel string `json:"status_label"` // Статус для отображения
	CanSchedule bool   `json:"can_schedule"` // Доступна кнопка "Назначить интервью"
}

type BucketView struct {
	Bucket     models.PipelineBucket `json:"bucket"`     // Код вкладки
	Title      string                `json:"title"`      // Название вкладки
	Count      int                   `json:"count"`      // Количество кандидатов
	Applicants []ApplicantView       `json:"applicants"` // Кандидаты в порядке получения
}

type PipelineView struct {
	JobID   string       `json:"job_id"`          // Выбранная вакансия
	Error   string       `json:"error,omitempty"` // Ошибка последней загрузки
	Total   int          `json:"total"`           // Всего кандидатов
	Buckets []BucketView `json:"buckets"`         // Вкладки воронки
}

type StatusChangeRequest struct {
	Email  string `json:"email"`  // Емайл кандидата
	Status string `json:"status"` // Новый статус или ask_for_review
}

func (r StatusChangeRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return models.NewValidationError("applicant email is required")
	}
	if r.Status == "" {
		return models.NewValidationError("status is required")
	}
	return nil
}

func (r StatusChangeRequest) IsAskForReview() bool {
	return r.Status == models.StatusOptionAskForReview
}
