package initializers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/config"
	"hr-pipeline/lib/utils/lock"
)

// InitLock блокировки в redis, если он задан, иначе в памяти процесса
func InitLock(ctx context.Context) {
	if config.Conf.Redis.Addr == "" {
		lock.Instance = lock.NewMemoryLock()
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Conf.Redis.Addr,
		Password: config.Conf.Redis.Password,
		DB:       config.Conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("redis недоступен, используются блокировки в памяти")
		lock.Instance = lock.NewMemoryLock()
		return
	}
	lock.Instance = lock.NewRedisLock(client, time.Duration(config.Conf.Redis.LockTTL)*time.Second)
}
