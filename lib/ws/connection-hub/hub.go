package connectionhub

import (
	"sync"

	log "github.com/sirupsen/logrus"
	wsmodels "hr-pipeline/models/ws"
)

// Conn соединение клиента, *websocket.Conn удовлетворяет интерфейсу
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Provider interface {
	AddClient(sessionID string, conn Conn)
	DeleteClient(sessionID string, conn Conn)
	SendMessage(msg wsmodels.ServerMessage)
	SendClose(sessionID string)
	// Pending события, накопленные пока клиент не подключен
	Pending(sessionID string) []wsmodels.ServerMessage
}

var Instance Provider

// максимальное число неотправленных событий на сессию, старые вытесняются
const pendingLimit = 50

func Init() {
	Instance = NewHub()
}

func NewHub() Provider {
	return &impl{
		clients: map[string]*clientSession{},
		pending: map[string][]wsmodels.ServerMessage{},
	}
}

type impl struct {
	mu      sync.Mutex
	clients map[string]*clientSession //map[sessionID]
	pending map[string][]wsmodels.ServerMessage
}

func (i *impl) AddClient(sessionID string, conn Conn) {
	i.mu.Lock()
	if oldSess, ok := i.clients[sessionID]; ok {
		oldSess.stop()
	}
	sess := newSession(conn)
	i.clients[sessionID] = sess
	delayed := i.pending[sessionID]
	delete(i.pending, sessionID)
	i.mu.Unlock()

	for _, msg := range delayed {
		if !sess.enqueue(msg) {
			i.addPending(msg)
		}
	}
}

// DeleteClient удаляет клиента, если сессия все еще обслуживается этим соединением
func (i *impl) DeleteClient(sessionID string, conn Conn) {
	i.mu.Lock()
	defer i.mu.Unlock()
	sess, ok := i.clients[sessionID]
	if !ok || (conn != nil && sess.conn != conn) {
		return
	}
	delete(i.clients, sessionID)
	sess.stop()
}

func (i *impl) SendMessage(msg wsmodels.ServerMessage) {
	i.mu.Lock()
	sess, ok := i.clients[msg.ToSessionID]
	i.mu.Unlock()
	if ok && sess.enqueue(msg) {
		return
	}
	i.addPending(msg)
}

func (i *impl) addPending(msg wsmodels.ServerMessage) {
	i.mu.Lock()
	defer i.mu.Unlock()
	list := append(i.pending[msg.ToSessionID], msg)
	if len(list) > pendingLimit {
		log.WithField("session_id", msg.ToSessionID).Warn("превышен лимит неотправленных событий")
		list = list[len(list)-pendingLimit:]
	}
	i.pending[msg.ToSessionID] = list
}

func (i *impl) SendClose(sessionID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if sess, ok := i.clients[sessionID]; ok {
		sess.stop()
	}
	delete(i.pending, sessionID)
}

func (i *impl) Pending(sessionID string) []wsmodels.ServerMessage {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]wsmodels.ServerMessage(nil), i.pending[sessionID]...)
}
