package notify

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"hr-pipeline/lib/smtp"
	connectionhub "hr-pipeline/lib/ws/connection-hub"
	jobapimodels "hr-pipeline/models/api/job"
	wsmodels "hr-pipeline/models/ws"
)

// Recipient сессия рекрутера, которой адресовано уведомление
type Recipient interface {
	ID() string
	Org() jobapimodels.Company
}

type Provider interface {
	Success(to Recipient, msg string)
	Error(to Recipient, msg string)
	Info(to Recipient, msg string)
	// SessionExpired последнее уведомление сессии, после него соединение закрывается
	SessionExpired(to Recipient)
}

var Instance Provider

func NewHandler(hub connectionhub.Provider, mailer smtp.Provider, emailCopyCodes []string) {
	Instance = NewNotifier(hub, mailer, emailCopyCodes)
}

func NewNotifier(hub connectionhub.Provider, mailer smtp.Provider, emailCopyCodes []string) Provider {
	codes := map[wsmodels.MessageCode]bool{}
	for _, code := range emailCopyCodes {
		codes[wsmodels.MessageCode(code)] = true
	}
	return &impl{
		hub:            hub,
		mailer:         mailer,
		emailCopyCodes: codes,
	}
}

type impl struct {
	hub            connectionhub.Provider
	mailer         smtp.Provider
	emailCopyCodes map[wsmodels.MessageCode]bool
}

const timeFormat = "02.01.2006 15:04:05"

func (i impl) Success(to Recipient, msg string) {
	i.send(to, wsmodels.CodeSuccess, msg)
}

func (i impl) Error(to Recipient, msg string) {
	i.send(to, wsmodels.CodeError, msg)
}

func (i impl) Info(to Recipient, msg string) {
	i.send(to, wsmodels.CodeInfo, msg)
}

func (i impl) SessionExpired(to Recipient) {
	i.send(to, wsmodels.CodeSessionExpired, "Session expired, please log in again")
	i.hub.SendClose(to.ID())
}

func (i impl) send(to Recipient, code wsmodels.MessageCode, msg string) {
	message := wsmodels.ServerMessage{
		ID:          uuid.NewString(),
		ToSessionID: to.ID(),
		Time:        time.Now().Format(timeFormat),
		Code:        string(code),
		Msg:         msg,
	}
	i.hub.SendMessage(message)
	log.WithFields(log.Fields{
		"session_id": to.ID(),
		"code":       code,
	}).Debug(msg)

	if !i.emailCopyCodes[code] || i.mailer == nil || !i.mailer.IsConfigured() {
		return
	}
	orgEmail := to.Org().Email
	if orgEmail == "" {
		return
	}
	go func() {
		if err := i.mailer.SendEMail(orgEmail, msg, string(code)); err != nil {
			log.WithError(err).WithField("session_id", to.ID()).Warn("ошибка отправки копии уведомления на почту")
		}
	}()
}
