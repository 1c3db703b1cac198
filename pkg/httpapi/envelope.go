package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/vestaclub/vesta/pkg/serrors"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Envelope is the uniform response shape every API operation returns.
type Envelope struct {
	Success  bool       `json:"success"`
	Data     any        `json:"data,omitempty"`
	Error    *ErrorBody `json:"error,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, &Envelope{Success: true, Data: data})
}

// WritePartialSuccess reports a completed primary mutation whose follow-up
// write failed. Still a 200: the mutation is not rolled back.
func WritePartialSuccess(w http.ResponseWriter, data any, warnings []string) error {
	return WriteJSON(w, http.StatusOK, &Envelope{Success: true, Data: data, Warnings: warnings})
}

func WriteErrorEnvelope(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message, Meta: meta},
	})
}

// StatusFor maps the error taxonomy to transport status codes.
func StatusFor(err error) int {
	switch serrors.ClassOf(err) {
	case serrors.ClassAuthentication:
		return http.StatusUnauthorized
	case serrors.ClassAuthorization:
		return http.StatusForbidden
	case serrors.ClassValidation:
		return http.StatusBadRequest
	case serrors.ClassNotFound:
		return http.StatusNotFound
	case serrors.ClassConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
