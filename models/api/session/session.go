package sessionapimodels

import (
	"strings"

	"github.com/pkg/errors"
)

type LoginRequest struct {
	UserName     string `json:"user_name"`     // Имя рекрутера
	OrgName      string `json:"org_name"`      // Название организации
	OrgEmail     string `json:"org_email"`     // Почта организации
	AccessToken  string `json:"access_token"`  // Токен доступа во внешнюю систему
	RefreshToken string `json:"refresh_token"` // Токен обновления
}

func (r LoginRequest) Validate() error {
	if strings.TrimSpace(r.OrgEmail) == "" {
		return errors.New("не указана почта организации")
	}
	if r.AccessToken == "" {
		return errors.New("не указан токен доступа")
	}
	return nil
}

type LoginResponse struct {
	SessionID string `json:"session_id"` // Идентификатор сессии
	Token     string `json:"token"`      // Токен для запросов к api
}
