package lock

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Provider блокировка по ключу без ожидания. Занятый ключ - сразу отказ
type Provider interface {
	TryLock(ctx context.Context, key string) (bool, error)
	Unlock(ctx context.Context, key string) error
	IsLocked(ctx context.Context, key string) bool
}

var Instance Provider = NewMemoryLock()

func NewMemoryLock() Provider {
	return &memoryLock{}
}

type memoryLock struct {
	lockMap sync.Map
}

func (m *memoryLock) TryLock(_ context.Context, key string) (bool, error) {
	_, loaded := m.lockMap.LoadOrStore(key, time.Now())
	return !loaded, nil
}

func (m *memoryLock) Unlock(_ context.Context, key string) error {
	m.lockMap.Delete(key)
	return nil
}

func (m *memoryLock) IsLocked(_ context.Context, key string) bool {
	_, ok := m.lockMap.Load(key)
	return ok
}

// WithLock выполняет safeCode под блокировкой key. Если ключ занят - success=false, safeCode не вызывается
func WithLock(ctx context.Context, provider Provider, key string, safeCode func() error) (success bool, err error) {
	locked, err := provider.TryLock(ctx, key)
	if err != nil || !locked {
		return false, err
	}
	// блокировка снимается и после отмены ctx
	defer func() {
		if unlockErr := provider.Unlock(context.WithoutCancel(ctx), key); unlockErr != nil {
			log.WithError(unlockErr).WithField("key", key).Error("ошибка снятия блокировки")
		}
	}()
	return true, safeCode()
}
