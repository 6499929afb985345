package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisKeyPrefix = "hr-pipeline:lock:"

// снимает ключ, только если в нем все еще наш токен
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// NewRedisLock блокировка через SETNX с TTL, чтобы упавший процесс не держал ключ вечно
func NewRedisLock(client redis.UniversalClient, ttl time.Duration) Provider {
	return &redisLock{
		client: client,
		ttl:    ttl,
	}
}

type redisLock struct {
	client redis.UniversalClient
	ttl    time.Duration
	tokens sync.Map // map[key]token захваченных этим процессом ключей
}

func (r *redisLock) TryLock(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, redisKeyPrefix+key, token, r.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, "ошибка установки блокировки")
	}
	if ok {
		r.tokens.Store(key, token)
	}
	return ok, nil
}

// Unlock после истечения TTL ключ мог захватить другой запрос, чужая блокировка не снимается
func (r *redisLock) Unlock(ctx context.Context, key string) error {
	token, ok := r.tokens.LoadAndDelete(key)
	if !ok {
		return nil
	}
	deleted, err := unlockScript.Run(ctx, r.client, []string{redisKeyPrefix + key}, token).Int()
	if err != nil {
		return errors.Wrap(err, "ошибка снятия блокировки")
	}
	if deleted == 0 {
		log.WithField("lock_key", key).Warn("блокировка истекла до снятия")
	}
	return nil
}

func (r *redisLock) IsLocked(ctx context.Context, key string) bool {
	n, err := r.client.Exists(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		log.WithError(err).WithField("lock_key", key).Warn("ошибка проверки блокировки")
		return false
	}
	return n > 0
}
