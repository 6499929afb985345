package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "hr-pipeline/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.ActionHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ActionHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.ExtApiAudit{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ExtApiAudit")
	}
	log.Info("миграция прошла успешно")
	return nil
}
