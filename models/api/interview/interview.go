package interviewapimodels

import (
	"hr-pipeline/models"
	applicantapimodels "hr-pipeline/models/api/applicant"
	jobapimodels "hr-pipeline/models/api/job"
)

const (
	ErrMsgLocationType = "Please select interview location type (Online or Offline)"
	ErrMsgRound        = "Please select an interview round"
	ErrMsgAIRound      = "AI interview is available only for the Initial Screening Round"
	ErrMsgTeam         = "Please select a team"
)

type DraftState string

const (
	DraftStateOpen       DraftState = "open"
	DraftStateSubmitting DraftState = "submitting"
)

type ScheduleDraft struct {
	ApplicantEmail string                `json:"applicant_email"` // Кандидат, для которого открыта форма
	State          DraftState            `json:"state"`           // open/submitting
	Round          models.InterviewRound `json:"round"`           // Этап
	Team           string                `json:"team"`            // Команда
	LocationType   models.LocationType   `json:"location_type"`   // online/offline
	IsAIInterview  bool                  `json:"is_ai_interview"` // AI интервью
	Error          string                `json:"error,omitempty"` // Ошибка формы
}

func NewScheduleDraft(email string) ScheduleDraft {
	return ScheduleDraft{
		ApplicantEmail: email,
		State:          DraftStateOpen,
	}
}

// SetRound выбор этапа, на любом этапе кроме первичного скрининга AI интервью выключается
func (d *ScheduleDraft) SetRound(round models.InterviewRound) error {
	if !round.IsValid() {
		return models.NewValidationError(ErrMsgRound)
	}
	d.Round = round
	if !round.AllowsAIInterview() {
		d.IsAIInterview = false
	}
	return nil
}

// SetAIInterview включение AI интервью очищает команду и тип локации
func (d *ScheduleDraft) SetAIInterview(enabled bool) error {
	if enabled && !d.Round.AllowsAIInterview() {
		return models.NewValidationError(ErrMsgAIRound)
	}
	d.IsAIInterview = enabled
	if enabled {
		d.Team = ""
		d.LocationType = ""
	}
	return nil
}

func (d *ScheduleDraft) Apply(patch ScheduleDraftPatch) error {
	if patch.Round != nil {
		if err := d.SetRound(*patch.Round); err != nil {
			return err
		}
	}
	if patch.IsAIInterview != nil {
		if err := d.SetAIInterview(*patch.IsAIInterview); err != nil {
			return err
		}
	}
	if d.IsAIInterview {
		return nil
	}
	if patch.Team != nil {
		d.Team = *patch.Team
	}
	if patch.LocationType != nil {
		location := *patch.LocationType
		if location != "" && !location.IsSelectable() {
			return models.NewValidationError(ErrMsgLocationType)
		}
		d.LocationType = location
	}
	return nil
}

// Validate проверка перед отправкой, выполняется до любого запроса во внешнюю систему
func (d ScheduleDraft) Validate() error {
	if !d.Round.IsValid() {
		return models.NewValidationError(ErrMsgRound)
	}
	if d.IsAIInterview {
		return nil
	}
	if d.LocationType == "" {
		return models.NewValidationError(ErrMsgLocationType)
	}
	if d.Team == "" {
		return models.NewValidationError(ErrMsgTeam)
	}
	return nil
}

func (d ScheduleDraft) ToForm(applicant applicantapimodels.Applicant, org jobapimodels.Company, jobID string) InterviewForm {
	location := d.LocationType
	if d.IsAIInterview {
		location = models.LocationTypeAIOnline
	}
	return InterviewForm{
		ApplicantName:  applicant.GetName(),
		ApplicantEmail: applicant.Email,
		Round:          string(d.Round),
		Team:           d.Team,
		OrgName:        org.Name,
		OrgEmail:       org.Email,
		JobID:          jobID,
		LocationType:   location,
		IsAIInterview:  d.IsAIInterview,
	}
}

type ScheduleDraftPatch struct {
	Round         *models.InterviewRound `json:"round"`           // Этап
	Team          *string                `json:"team"`            // Команда
	LocationType  *models.LocationType   `json:"location_type"`   // online/offline
	IsAIInterview *bool                  `json:"is_ai_interview"` // AI интервью
}

// InterviewForm тело запроса отправки приглашения
type InterviewForm struct {
	ApplicantName  string              `json:"applicantName"`
	ApplicantEmail string              `json:"applicantEmail"`
	Round          string              `json:"round"`
	Team           string              `json:"team"`
	OrgName        string              `json:"orgName"`
	OrgEmail       string              `json:"orgEmail"`
	JobID          string              `json:"job_id"`
	LocationType   models.LocationType `json:"location_type"`
	IsAIInterview  bool                `json:"is_ai_interview"`
}

type Team struct {
	TeamID   string `json:"team_id"`   // Идентификатор команды
	TeamName string `json:"team_name"` // Название команды
}

type ScheduleFormView struct {
	Draft  ScheduleDraft           `json:"draft"`  // Черновик
	Rounds []models.InterviewRound `json:"rounds"` // Доступные этапы
	Teams  []Team                  `json:"teams"`  // Команды
}
