package filestorage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/models"
)

type Provider interface {
	// ResolveURL ссылка для просмотра: http(s) адрес возвращается как есть, путь в хранилище подписывается
	ResolveURL(ctx context.Context, path string) (string, error)
}

var Instance Provider

func NewHandler(s3client *minio.Client, bucketName string, ttl time.Duration) {
	Instance = NewInstance(s3client, bucketName, ttl)
}

// NewInstance s3client может быть nil, тогда разрешаются только абсолютные ссылки
func NewInstance(s3client *minio.Client, bucketName string, ttl time.Duration) Provider {
	return impl{
		s3client:   s3client,
		bucketName: bucketName,
		ttl:        ttl,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
	ttl        time.Duration
}

func IsAbsoluteURL(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (i impl) ResolveURL(ctx context.Context, path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", models.NewValidationError("file path is required")
	}
	if IsAbsoluteURL(path) {
		return path, nil
	}
	if i.s3client == nil {
		return "", errors.New("хранилище файлов не настроено")
	}
	objectName := strings.TrimPrefix(path, "/")
	objectName = strings.TrimPrefix(objectName, i.bucketName+"/")
	presigned, err := i.s3client.PresignedGetObject(ctx, i.bucketName, objectName, i.ttl, url.Values{})
	if err != nil {
		log.WithError(err).WithField("object", objectName).Error("ошибка формирования ссылки на файл")
		return "", errors.Wrap(err, "ошибка формирования ссылки на файл")
	}
	return presigned.String(), nil
}
