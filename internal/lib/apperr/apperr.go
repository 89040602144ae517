// Package apperr описывает таксономию ошибок прокси-функций.
//
// На проводе все ошибки выглядят одинаково ({"error": "..."}, HTTP 500),
// различие видов нужно только для логирования и тестов.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput — отсутствует обязательное поле запроса.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfig — не задан ключ доступа к внешнему API.
	ErrConfig = errors.New("configuration error")
	// ErrAuth — нет или невалиден bearer-токен, либо не удалось определить пользователя.
	ErrAuth = errors.New("authentication error")
	// ErrForbidden — объект принадлежит другому пользователю.
	ErrForbidden = errors.New("forbidden")
)

// UpstreamError — неуспешный ответ внешнего API.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.Status, e.Body)
}

// Upstream создаёт UpstreamError для провайдера.
func Upstream(provider string, status int, body string) error {
	return &UpstreamError{Provider: provider, Status: status, Body: body}
}

// Error — ошибка одного из видов таксономии с сообщением для клиента.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string {
	return e.kind.Error() + ": " + e.msg
}

func (e *Error) Unwrap() error {
	return e.kind
}

// InvalidInput оборачивает ErrInvalidInput с текстом для клиента.
func InvalidInput(msg string) error {
	return &Error{kind: ErrInvalidInput, msg: msg}
}

// Config оборачивает ErrConfig с именем недостающей настройки.
func Config(setting string) error {
	return &Error{kind: ErrConfig, msg: setting + " is not configured"}
}

// Auth оборачивает ErrAuth.
func Auth(msg string) error {
	return &Error{kind: ErrAuth, msg: msg}
}

// Forbidden оборачивает ErrForbidden.
func Forbidden(msg string) error {
	return &Error{kind: ErrForbidden, msg: msg}
}

// Message возвращает текст ошибки для ответа клиенту без цепочки op-префиксов.
func Message(err error) string {
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Error()
	}
	var e *Error
	if errors.As(err, &e) {
		return e.msg
	}
	return "Internal server error"
}

// Kind возвращает короткое имя вида ошибки для логов и метрик.
func Kind(err error) string {
	var up *UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConfig):
		return "config"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.As(err, &up):
		return "upstream"
	default:
		return "internal"
	}
}

// IsLocal сообщает, что ошибка возникла до обращения к внешнему API
// или по результатам его успешного ответа: неверный ввод, конфигурация,
// аутентификация или запрет.
func IsLocal(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConfig) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrForbidden)
}
