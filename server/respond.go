package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps any error onto the AppError taxonomy: typed errors
// keep their status and user message, everything else becomes a 500
// with a generic message so internals never leak to the site.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)
	if appErr.Internal != nil {
		utils.Error("%s: %v", appErr.Code, appErr.Internal)
	} else {
		utils.Warn("%s: %s", appErr.Code, appErr.Message)
	}
	writeJSON(w, appErr.HTTPStatus(), ErrorResponse{
		Error: appErr.GetUserMessage(),
		Code:  appErr.Code,
	})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
