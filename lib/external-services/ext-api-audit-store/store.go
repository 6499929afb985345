package extapiauditstore

import (
	"gorm.io/gorm"
	dbmodels "hr-pipeline/models/db"
)

type Provider interface {
	Create(rec dbmodels.ExtApiAudit) (id string, err error)
}

// NewInstance без подключения к БД аудит не ведется
func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ExtApiAudit) (id string, err error) {
	err = rec.Validate()
	if err != nil {
		return "", err
	}
	if i.db == nil {
		return "", nil
	}
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}
