package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	"hr-pipeline/db"
	"hr-pipeline/fiberlog"
	actionhistoryhandler "hr-pipeline/lib/action-history"
	actionhistorystore "hr-pipeline/lib/action-history/store"
	"hr-pipeline/lib/applicant"
	xlsexport "hr-pipeline/lib/export/xls"
	"hr-pipeline/lib/external-services/ats/atsclient"
	extapiauditstore "hr-pipeline/lib/external-services/ext-api-audit-store"
	"hr-pipeline/lib/interview"
	"hr-pipeline/lib/jobs"
	"hr-pipeline/lib/notify"
	"hr-pipeline/lib/offer"
	"hr-pipeline/lib/review"
	"hr-pipeline/lib/session"
	"hr-pipeline/lib/smtp"
	"hr-pipeline/lib/status"
	"hr-pipeline/lib/utils/lock"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3(ctx)
	InitSmtp()
	InitLock(ctx)
	connectionhub.Init()
	notify.NewHandler(connectionhub.Instance, smtp.Instance, config.Conf.Notify.EmailCopyCodes)
	session.NewHandler(func(sess *session.Session) {
		notify.Instance.SessionExpired(sess)
	}, connectionhub.Instance.SendClose)

	atsclient.NewProvider(atsclient.Config{
		Host:      config.Conf.Remote.BaseUrl,
		Timeout:   time.Duration(config.Conf.Remote.TimeoutInSec) * time.Second,
		UserAgent: config.Conf.Remote.UserAgent,
	}, extapiauditstore.NewInstance(db.DB))
	actionhistoryhandler.NewHandler(actionhistorystore.NewInstance(db.DB))
	xlsexport.NewHandler()

	jobs.NewHandler(atsclient.Instance)
	applicant.NewHandler(atsclient.Instance, lock.Instance)
	status.NewHandler(atsclient.Instance, applicant.Instance, lock.Instance, actionhistoryhandler.Instance)
	interview.NewHandler(atsclient.Instance, applicant.Instance, actionhistoryhandler.Instance, notify.Instance)
	offer.NewHandler(atsclient.Instance, applicant.Instance, actionhistoryhandler.Instance, notify.Instance)
	review.NewHandler(atsclient.Instance, applicant.Instance, status.Instance, actionhistoryhandler.Instance, notify.Instance)

	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача очистки неактивных сессий
	idle := time.Duration(config.Conf.Auth.SessionIdleInSec) * time.Second
	interval := time.Duration(config.Conf.Auth.SessionCleanupSec) * time.Second
	log.WithField("idle", idle.String()).Info("запуск очистки неактивных сессий")
	session.Instance.Run(ctx, idle, interval)
}
