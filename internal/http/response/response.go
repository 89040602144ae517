// Package response содержит единый формат JSON-ответов HTTP-обработчиков.
//
// Прокси-функции отвечают на любую ошибку статусом 500 и телом {"error": "..."};
// вид ошибки различается только в логах.
package response

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/executive-coach/internal/lib/apperr"
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error" example:"Message is required"`
}

// StatusResponse тело ответа операций без данных.
type StatusResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Account deleted successfully"`
}

// Error возвращает ErrorResponse с сообщением msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// Fail отвечает 500 с сообщением ошибки err.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, Error(apperr.Message(err)))
}

// FailSoft отвечает 200 с success=false.
func FailSoft(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, StatusResponse{Success: false, Message: apperr.Message(err)})
}

// WithStatus отвечает статусом status и сообщением msg.
func WithStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// ValidationError превращает ошибки валидатора в ErrInvalidInput.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.InvalidInput("invalid request")
	}

	var errsMsgs []string
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is required", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("%s is not valid", err.Field()))
		}
	}
	return apperr.InvalidInput(strings.Join(errsMsgs, ", "))
}
