package wsmodels

type MessageCode string

const (
	CodeSuccess        MessageCode = "success"         // действие выполнено
	CodeError          MessageCode = "error"           // ошибка действия
	CodeInfo           MessageCode = "info"            // информационное сообщение
	CodeSessionExpired MessageCode = "session_expired" // сессия завершена, нужен повторный вход
)

type ServerMessage struct {
	ID          string `json:"id"`   // идентификатор события
	ToSessionID string `json:"-"`    // получатель
	Time        string `json:"time"` // время события
	Code        string `json:"code"` // код события
	Msg         string `json:"msg"`  // текст события
}
