package actionhistorystore

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	dbmodels "hr-pipeline/models/db"
)

type Provider interface {
	Create(rec dbmodels.ActionHistory) (id string, err error)
	List(orgEmail, applicantEmail string, limit int) (list []dbmodels.ActionHistory, err error)
}

// NewInstance без подключения к БД журнал не ведется
func NewInstance(DB *gorm.DB) Provider {
	if DB == nil {
		return nopStore{}
	}
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ActionHistory) (id string, err error) {
	err = i.db.
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) List(orgEmail, applicantEmail string, limit int) (list []dbmodels.ActionHistory, err error) {
	list = []dbmodels.ActionHistory{}
	tx := i.db.
		Model(dbmodels.ActionHistory{}).
		Where("org_email = ?", orgEmail).
		Where("lower(applicant_email) = lower(?)", applicantEmail).
		Order("created_at desc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err = tx.Find(&list).Error
	if err != nil {
		log.WithError(err).Error("ошибка получения истории действий по кандидату")
		return nil, errors.New("ошибка получения истории действий по кандидату")
	}
	return list, nil
}

type nopStore struct{}

func (nopStore) Create(rec dbmodels.ActionHistory) (id string, err error) {
	return "", nil
}

func (nopStore) List(orgEmail, applicantEmail string, limit int) (list []dbmodels.ActionHistory, err error) {
	return []dbmodels.ActionHistory{}, nil
}
