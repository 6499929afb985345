package initializers

import (
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	"hr-pipeline/db"
)

// InitDBConnection БД нужна только журналу действий и аудиту, без нее сервис работает
func InitDBConnection() {
	if config.Conf.Database.Enabled != nil && !*config.Conf.Database.Enabled {
		log.Info("БД отключена, журнал действий и аудит не сохраняются")
		return
	}
	err := db.Connect(db.ConnConfig{
		Host:      config.Conf.Database.Host,
		Port:      config.Conf.Database.Port,
		Name:      config.Conf.Database.Name,
		User:      config.Conf.Database.User,
		Password:  config.Conf.Database.Password,
		DebugMode: config.Conf.Database.DebugMode != nil && *config.Conf.Database.DebugMode,
		Migrate:   config.Conf.Database.MigrateOnStart != nil && *config.Conf.Database.MigrateOnStart,
	})
	if err != nil {
		panic(err.Error())
	}
}
