package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/itchan-dev/supportdesk/shared/api"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks validate tags and reports the failing fields in one ValidationError.
func Validate(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &internal_errors.ValidationError{Message: err.Error(), Err: err}
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &internal_errors.ValidationError{
		Message: "invalid fields: " + strings.Join(fields, ", "),
		Err:     err,
	}
}

func Decode(r io.ReadCloser, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &internal_errors.ErrorWithStatusCode{Message: "Payload too large", StatusCode: http.StatusRequestEntityTooLarge}
		}
		logger.Log.Debug("invalid json body", "error", err)
		return &internal_errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	return nil
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to write json response", "error", err)
	}
}

func WriteError(w http.ResponseWriter, status int, message, details string) {
	WriteJSON(w, status, api.ErrorResponse{Error: message, Details: details})
}

// WriteErrorAndStatusCode maps err through the error taxonomy.
// Errors without a known status become a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := internal_errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		var withCode *internal_errors.ErrorWithStatusCode
		if !errors.As(err, &withCode) {
			WriteError(w, status, "Internal server error", "")
			return
		}
	}
	WriteError(w, status, err.Error(), "")
}
