package handlers

import (
	"encoding/json"
	"net/http"
)

// Closed error taxonomy. Each code carries exactly one HTTP status; callers
// branch on the code, never on free-form text.
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidFileType    = "INVALID_FILE_TYPE"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeInvalidJSON        = "INVALID_JSON"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeUploadError        = "UPLOAD_ERROR"
	CodeDeleteError        = "DELETE_ERROR"
	CodeInternalError      = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// envelope is the uniform boundary shape: exactly one of Data or Error is
// present, discriminated by Success.
type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) ok(w http.ResponseWriter, data any) {
	a.json(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (a *App) fail(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, envelope{Success: false, Error: &apiError{Code: code, Message: message}})
}

// MethodNotAllowed keeps the envelope uniform for unsupported verbs.
func (a *App) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	a.fail(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed, use POST")
}
