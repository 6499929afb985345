package atsclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"hr-pipeline/models"
)

// APIError ответ ATS с кодом не 2xx
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ATS вернул ошибку %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("ATS вернул ошибку %d", e.StatusCode)
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return errors.Is(err, models.ErrUnauthorized)
}

// Detail текст ошибки для пользователя: detail сервера как есть, иначе fallback
func Detail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, models.ErrSessionExpired) {
		return models.ErrSessionExpired.Error()
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail detail бывает строкой или списком ошибок валидации
func parseDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	data := errorBody{}
	if err := json.Unmarshal(body, &data); err != nil || len(data.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(data.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var items []validationItem
	if err := json.Unmarshal(data.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
