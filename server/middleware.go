package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/shreshta-sdc/shreshta-server/constants"
	apperrors "github.com/shreshta-sdc/shreshta-server/errors"
	"github.com/shreshta-sdc/shreshta-server/utils"
)

// AdminPinHeader carries the admin PIN on every admin request. The
// PIN is checked per request at the operation boundary; there is no
// session to steal, but the PIN itself is a shared fixed secret.
const AdminPinHeader = "X-Admin-Pin"

// requirePIN gates admin routes on the configured PIN with a
// constant-time compare.
func requirePIN(pin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			presented := r.Header.Get(AdminPinHeader)
			if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(pin)) != 1 {
				writeError(w, apperrors.NewPermissionError("ADMIN_PIN_MISMATCH",
					"admin PIN missing or incorrect", constants.MsgIncorrectPIN))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger writes one access log line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		utils.Info("%s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// corsMiddleware allows the registration site to call the API from
// its own origin.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+AdminPinHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
