package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) error {
	return RespondJSON(w, status, ErrorBody{Error: message})
}

// RespondFieldErrors 发送字段级校验错误
func RespondFieldErrors(w http.ResponseWriter, status int, message string, fields map[string]string) error {
	return RespondJSON(w, status, ErrorBody{Error: message, Fields: fields})
}
