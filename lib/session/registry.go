package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/lib/metrics"
	baseworker "hr-pipeline/lib/utils/base-worker"
	jobapimodels "hr-pipeline/models/api/job"
	sessionapimodels "hr-pipeline/models/api/session"
)

type Provider interface {
	Create(req sessionapimodels.LoginRequest) *Session
	Get(id string) (*Session, bool)
	Delete(id string)
	CleanupIdle(idle time.Duration) int
	Run(ctx context.Context, idle, interval time.Duration)
}

var Instance Provider

// ExpireHandler вызывается после принудительного выхода, сессия уже удалена из реестра
type ExpireHandler func(sess *Session)

// ReleaseHandler освобождает связанные с сессией ресурсы после выхода или очистки по неактивности
type ReleaseHandler func(sessionID string)

func NewHandler(onExpire ExpireHandler, onRelease ReleaseHandler) {
	Instance = NewRegistry(onExpire, onRelease)
}

func NewRegistry(onExpire ExpireHandler, onRelease ReleaseHandler) Provider {
	return &impl{
		sessions:  map[string]*Session{},
		onExpire:  onExpire,
		onRelease: onRelease,
	}
}

type impl struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	onExpire  ExpireHandler
	onRelease ReleaseHandler
}

func (i *impl) Create(req sessionapimodels.LoginRequest) *Session {
	org := jobapimodels.Company{
		Name:  req.OrgName,
		Email: req.OrgEmail,
	}
	sess := New(uuid.NewString(), req.UserName, org, req.AccessToken, req.RefreshToken)
	sess.OnExpire(i.expired)

	i.mu.Lock()
	i.sessions[sess.ID()] = sess
	metrics.ActiveSessions.Set(float64(len(i.sessions)))
	i.mu.Unlock()

	log.WithFields(log.Fields{
		"session_id": sess.ID(),
		"org_email":  req.OrgEmail,
	}).Info("сессия создана")
	return sess
}

func (i *impl) Get(id string) (*Session, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	sess, ok := i.sessions[id]
	if !ok || sess.IsExpired() {
		return nil, false
	}
	return sess, true
}

func (i *impl) Delete(id string) {
	i.remove(id)
	i.release(id)
}

func (i *impl) remove(id string) {
	i.mu.Lock()
	delete(i.sessions, id)
	metrics.ActiveSessions.Set(float64(len(i.sessions)))
	i.mu.Unlock()
}

func (i *impl) release(id string) {
	if i.onRelease != nil {
		i.onRelease(id)
	}
}

// expired ресурсы освобождает onExpire после последнего уведомления
func (i *impl) expired(sess *Session) {
	i.remove(sess.ID())
	log.WithField("session_id", sess.ID()).Warn("сессия завершена: токен доступа не удалось обновить")
	if i.onExpire != nil {
		i.onExpire(sess)
	}
}

func (i *impl) CleanupIdle(idle time.Duration) int {
	border := time.Now().Add(-idle)
	removed := make([]string, 0)
	i.mu.Lock()
	for id, sess := range i.sessions {
		if sess.IsExpired() || sess.LastSeen().Before(border) {
			delete(i.sessions, id)
			removed = append(removed, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(i.sessions)))
	i.mu.Unlock()

	for _, id := range removed {
		i.release(id)
	}
	return len(removed)
}

// Run периодическая очистка неактивных сессий
func (i *impl) Run(ctx context.Context, idle, interval time.Duration) {
	worker := baseworker.NewInstance("session-cleanup", interval, interval)
	worker.Run(ctx, func(ctx context.Context) {
		if count := i.CleanupIdle(idle); count > 0 {
			worker.GetLogger().WithField("count", count).Info("удалены неактивные сессии")
		}
	})
}
