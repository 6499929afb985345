package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"25" env:"APP_BODY_LIMIT_MB"`
	}
	Auth struct {
		JWTSecret         string `default:"change-me" env:"AUTH_JWT_SECRET"`
		JWTExpireInSec    int    `default:"43200" env:"AUTH_JWT_EXPIRE_IN_SEC"`
		SessionIdleInSec  int    `default:"7200" env:"AUTH_SESSION_IDLE_IN_SEC"`
		SessionCleanupSec int    `default:"60" env:"AUTH_SESSION_CLEANUP_SEC"`
	}
	Remote struct {
		BaseUrl        string `default:"http://127.0.0.1:8000" env:"REMOTE_BASE_URL"`
		TimeoutInSec   int    `default:"30" env:"REMOTE_TIMEOUT_IN_SEC"`
		UserAgent      string `default:"HRPipeline/1.0" env:"REMOTE_USER_AGENT"`
		DetachRequests *bool  `default:"true" env:"REMOTE_DETACH_REQUESTS"`
	}
	Database struct {
		Enabled        *bool  `default:"true" env:"DB_ENABLED"`
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-pipeline" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		BucketName      string `default:"hr-pipeline" env:"S3_BUCKET_NAME"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		PresignTTLSec   int    `default:"900" env:"S3_PRESIGN_TTL_SEC"`
	}
	Redis struct {
		Addr     string `default:"" env:"REDIS_ADDR"`
		Password string `default:"" env:"REDIS_PASSWORD"`
		DB       int    `default:"0" env:"REDIS_DB"`
		LockTTL  int    `default:"60" env:"REDIS_LOCK_TTL_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	Notify struct {
		// коды уведомлений, которые дублируются письмом на почту организации
		EmailCopyCodes []string `env:"NOTIFY_EMAIL_COPY_CODES"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не найден, используем переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
