package dbmodels

import "github.com/pkg/errors"

// ExtApiAudit неуспешные запросы во внешние системы
type ExtApiAudit struct {
	BaseSessionModel
	RecID    string `gorm:"type:varchar(255)"`
	Service  string `gorm:"type:varchar(50)"`
	Uri      string
	Request  string
	Response string
	Status   int
}

func (a ExtApiAudit) Validate() error {
	if a.Service == "" {
		return errors.New("не указан сервис")
	}
	if a.Uri == "" {
		return errors.New("не указан uri запроса")
	}
	return nil
}
