package config

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saulo-duarte/cyberaware-lambda/internal/apperr"
)

type SuccessEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type ErrorEnvelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Logger.WithError(err).Error("Failed to encode JSON response")
	}
}

func Success(w http.ResponseWriter, status int, message string, data interface{}) {
	JSON(w, status, SuccessEnvelope{Status: "success", Message: message, Data: data})
}

func Fail(w http.ResponseWriter, status int, message string, fields map[string]string) {
	JSON(w, status, ErrorEnvelope{Status: "error", Message: message, Errors: fields})
}

// Error writes err using the status of its apperr kind. Internal and
// render failures are logged and their cause is not exposed.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := kind.Status()

	message := err.Error()
	var fields map[string]string
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		fields = appErr.Fields
	}

	if status >= http.StatusInternalServerError {
		WithContext(r.Context()).WithError(err).WithField("kind", kind.String()).Error("Request failed")
		if kind == apperr.KindInternal {
			message = "internal server error"
		}
	}

	Fail(w, status, message, fields)
}
