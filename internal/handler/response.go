package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"devconnect-api/internal/model"
	"devconnect-api/pkg/apierror"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps service errors onto the REST surface's `{message}`
// bodies. Unclassified errors become opaque 500s and get logged.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		message = apiErr.Message
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = "Invalid credentials."
	case errors.Is(err, model.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "Unauthorized: No token provided."
	case errors.Is(err, model.ErrForbidden):
		status = http.StatusForbidden
		message = "Forbidden: Invalid or expired token."
	case errors.Is(err, model.ErrUserNotFound):
		status = http.StatusNotFound
		message = "User not found."
	case errors.Is(err, model.ErrNotificationNotFound):
		status = http.StatusNotFound
		message = "Notification not found."
	case errors.Is(err, model.ErrUserAlreadyExists):
		status = http.StatusConflict
		message = "Email or username already in use."
	case errors.Is(err, model.ErrSelfFollow):
		status = http.StatusBadRequest
		message = "Tsk tsk tsk... you can't follow yourself!"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "Invalid input."
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeMessage(w, status, message)
}

// decodeAndValidate decodes the JSON body into payload and runs the
// struct's validation tags, writing a 400 itself when either fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, payload any) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON body.")
		return false
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			writeMessage(w, http.StatusBadRequest, validationErrors.Error())
			return false
		}
		writeMessage(w, http.StatusBadRequest, "Invalid input.")
		return false
	}

	return true
}
