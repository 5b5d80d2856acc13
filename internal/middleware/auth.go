package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type TokenVerifier interface {
	Verify(token, sessionId string) error
}

// BearerToken reads the token from the Authorization header, falling back
// to the token query parameter for websocket clients that cannot set
// headers.
func BearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// SessionToken rejects requests whose token was not issued for the {id}
// route parameter.
func SessionToken(log logrus.FieldLogger, tokens TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionId := chi.URLParam(r, "id")
			token := BearerToken(r)
			if token == "" {
				unauthorized(w, "missing session token")
				return
			}
			if err := tokens.Verify(token, sessionId); err != nil {
				log.WithError(err).WithField("sessionId", sessionId).Debug("rejected session token")
				unauthorized(w, "invalid session token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
