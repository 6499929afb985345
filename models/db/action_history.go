package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

type ActionHistory struct {
	BaseSessionModel
	JobID          string        `gorm:"type:varchar(255);index"`
	ApplicantEmail string        `gorm:"type:varchar(255);index"`
	UserName       string        `gorm:"type:varchar(255)"`
	ActionType     ActionType    `gorm:"type:varchar(50)"`
	Outcome        ActionOutcome `gorm:"type:varchar(20)"`
	Changes        ActionChanges `gorm:"type:jsonb"`
}

type ActionChanges struct {
	Description string         `json:"description"` // Комментрий
	Data        []ActionChange `json:"data"`        // Список изменений
}

type ActionChange struct {
	Field    string      `json:"field"`     // Измененное поле
	OldValue interface{} `json:"old_value"` // Старое значение
	NewValue interface{} `json:"new_value"` // Новое значение
}

func (j ActionChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *ActionChanges) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil
	}
	return json.Unmarshal(data, &j)
}

type ActionType string

const (
	HistoryTypeStatusChange  ActionType = "status_change"  // Смена статуса кандидата
	HistoryTypeInterview     ActionType = "interview"      // Отправлено приглашение на интервью
	HistoryTypeOffer         ActionType = "offer"          // Отправлен оффер
	HistoryTypeReviewRequest ActionType = "review_request" // Отправлен запрос на ревью
)

type ActionOutcome string

const (
	ActionOutcomeSuccess ActionOutcome = "success"
	ActionOutcomeFail    ActionOutcome = "fail"
)
