package api

import (
	"net/http"

	"github.com/go-chi/render"
)

// Error codes returned in the error envelope.
const (
	codeBadRequest  = "BAD_REQUEST"
	codeNotFound    = "NOT_FOUND"
	codeInvalidCSV  = "INVALID_CSV"
	codeInvalidFile = "INVALID_FILE"
	codeNoRemote    = "REMOTE_UNAVAILABLE"
	codeInternal    = "REQUEST_FAILED"
	codeNoIdentity  = "IDENTITY_REQUIRED"
)

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string, details ...string) {
	w.WriteHeader(status)
	render.JSON(w, r, errorResponse{Error: errorBody{Code: code, Message: msg, Details: details}})
}
