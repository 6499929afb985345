package initializers

import (
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	"hr-pipeline/lib/smtp"
)

func InitSmtp() {
	smtp.Connect(config.Conf.Smtp.User, config.Conf.Smtp.Password, config.Conf.Smtp.Host, config.Conf.Smtp.Port,
		config.Conf.Smtp.TLSEnabled == nil || *config.Conf.Smtp.TLSEnabled)
	if !smtp.Instance.IsConfigured() {
		log.Info("SMTP не настроен, копии уведомлений на почту не отправляются")
	}
}
