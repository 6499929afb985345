package models

import (
	"github.com/pkg/errors"
)

var (
	ErrSessionExpired    = errors.New("session expired, please log in again")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUpdateInProgress  = errors.New("status update for this applicant is already in progress")
	ErrDraftNotOpen      = errors.New("form is not open")
	ErrApplicantNotFound = errors.New("applicant not found")
)

// ValidationError ошибка проверки формы, запрос во внешнюю систему не отправлялся
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var vErr ValidationError
	return errors.As(err, &vErr)
}

// RemoteError ошибка внешней системы, Msg показывается пользователю как есть
type RemoteError struct {
	Msg   string
	Cause error
}

func (e RemoteError) Error() string {
	return e.Msg
}

func (e RemoteError) Unwrap() error {
	return e.Cause
}

func NewRemoteError(msg string, cause error) error {
	return RemoteError{Msg: msg, Cause: cause}
}

func IsRemoteError(err error) bool {
	var rErr RemoteError
	return errors.As(err, &rErr)
}
