package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/landrise/Fund-Distribution-Backend/internal/api/response"
)

// timeTokenTTL bounds how long a generated time token stays valid.
// Replayed tokens older than this are rejected.
const timeTokenTTL = 5 * time.Minute

// APIKeyMiddleware guards internal endpoints with a shared API key plus a
// fernet-signed time token. The key comes from the INTERNAL_API_KEY
// environment variable; the time token is derived from the same key, so a
// caller holding the key can mint tokens with GenerateTimeToken.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := os.Getenv("INTERNAL_API_KEY")
		if expectedKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal authentication failure", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}

		key := deriveFernetKey(expectedKey)
		if msg := fernet.VerifyAndDecrypt([]byte(timeToken), timeTokenTTL, []*fernet.Key{key}); msg == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GenerateTimeToken mints a fernet time token bound to the given API key.
// Exposed for clients of internal endpoints and for tests.
func GenerateTimeToken(apiKey string) string {
	token, err := fernet.EncryptAndSign([]byte(time.Now().UTC().Format(time.RFC3339)), deriveFernetKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// deriveFernetKey turns the shared API key into a 32-byte fernet key.
func deriveFernetKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	key := fernet.Key(sum)
	return &key
}
