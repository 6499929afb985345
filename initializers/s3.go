package initializers

import (
	"context"
	"time"

	"github.com/minio/minio-go/v7"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	filestorage "hr-pipeline/lib/file-storage"
	s3client "hr-pipeline/s3"
)

// InitS3 без хранилища ссылки на файлы разрешаются только для абсолютных адресов
func InitS3(ctx context.Context) {
	ttl := time.Duration(config.Conf.S3.PresignTTLSec) * time.Second
	var client *minio.Client
	if config.Conf.S3.Endpoint != "" {
		var err error
		client, err = s3client.NewClient(s3client.ConfigFromConf())
		if err != nil {
			log.WithError(err).Error("ошибка инициализации клиента S3")
			client = nil
		} else if err = s3client.CheckBucket(ctx, client, config.Conf.S3.BucketName); err != nil {
			log.WithError(err).Error("S3 соединение не удалось")
		}
	}
	filestorage.NewHandler(client, config.Conf.S3.BucketName, ttl)
}
