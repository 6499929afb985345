package connectionhub

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
	wsmodels "hr-pipeline/models/ws"
)

type clientSession struct {
	conn Conn

	// исходящие сообщения, буферизованы
	sendCh chan wsmodels.ServerMessage
	ctx    context.Context
	stop   func()

	closeOnce sync.Once
}

func newSession(conn Conn) *clientSession {
	ctx, cancelFn := context.WithCancel(context.Background())
	sess := &clientSession{
		stop:   cancelFn,
		ctx:    ctx,
		conn:   conn,
		sendCh: make(chan wsmodels.ServerMessage, 16),
	}
	go sess.startSend()
	return sess
}

// enqueue false - сессия остановлена или буфер заполнен
func (s *clientSession) enqueue(msg wsmodels.ServerMessage) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}
	select {
	case s.sendCh <- msg:
		return true
	default:
		return false
	}
}

func (s *clientSession) startSend() {
	for {
		select {
		case <-s.ctx.Done():
			s.flush()
			s.close()
			return
		case msg := <-s.sendCh:
			if err := s.send(msg); err != nil {
				log.WithError(err).Error("ошибка отправки сообщения")
			}
		}
	}
}

// flush отправляет то, что уже поставлено в очередь
func (s *clientSession) flush() {
	for {
		select {
		case msg := <-s.sendCh:
			if err := s.send(msg); err != nil {
				log.WithError(err).Debug("ошибка отправки сообщения при закрытии")
				return
			}
		default:
			return
		}
	}
}

func (s *clientSession) send(msg wsmodels.ServerMessage) error {
	if s.conn == nil {
		return nil
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	log.WithField("session_id", msg.ToSessionID).Debugf("отправлено сообщение: %s", msg.Code)
	return nil
}

func (s *clientSession) close() {
	s.closeOnce.Do(func() {
		if s.conn == nil {
			return
		}
		if err := s.conn.Close(); err != nil {
			log.WithError(err).Debug("ошибка закрытия соединения")
		}
	})
}
