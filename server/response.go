package server

import (
	"encoding/json"
	"net/http"
)

// 业务状态码
const (
	CodeSuccess           = 0
	CodeParameterError    = 1000
	CodeMusicbillNotExist = 1001
	CodeUnauthorized      = 1002
	CodeInternalError     = 1003
	CodeUserExists        = 1004
	CodeWrongCredentials  = 1005
)

type apiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiResponse{Code: CodeSuccess, Data: data})
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{Code: code, Message: message})
}
