package httphandler

import (
	"crypto/subtle"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// AllowJSON rejects request bodies which are not json.
func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "application/json" {
			writeJSON(w, slog.Default(), http.StatusUnsupportedMediaType,
				errorResponse{"invalid media type"})
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func LogRequests(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		const op = "LogRequests"

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.With("op", op).Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}
	return http.HandlerFunc(hf)
}

// BasicAuth guards the handler with the admin credentials.
// passwordHash is a bcrypt hash.
func BasicAuth(user string, passwordHash []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hf := func(w http.ResponseWriter, r *http.Request) {
			const op = "BasicAuth"

			u, p, ok := r.BasicAuth()
			if !ok || !validCredentials(user, passwordHash, u, p) {
				slog.With("op", op).Warn(
					"unauthorized", "path", r.URL.Path, "user", u,
				)
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				writeJSON(w, slog.Default(), http.StatusUnauthorized,
					errorResponse{"unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hf)
	}
}

func validCredentials(user string, hash []byte, gotUser, gotPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(gotUser)) == 1
	passOK := bcrypt.CompareHashAndPassword(hash, []byte(gotPass)) == nil
	return userOK && passOK && user != ""
}
