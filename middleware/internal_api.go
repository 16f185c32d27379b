package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/yashranaway/flexile/core/log"
)

// InternalAPIMiddleware guards endpoints called by trusted services with a shared token
type InternalAPIMiddleware struct {
	token []byte
}

func NewInternalAPIMiddleware(token string) *InternalAPIMiddleware {
	return &InternalAPIMiddleware{token: []byte(token)}
}

func (m *InternalAPIMiddleware) WithInternalAPIToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok || len(m.token) == 0 || subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
			log.Warnf("❌ Rejected internal API request from %s", r.RemoteAddr)
			writeErrorResponse(w, "invalid internal API token", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
