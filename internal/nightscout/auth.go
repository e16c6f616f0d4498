package nightscout

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
)

// SecretHeader carries the hashed shared secret on authenticated requests.
const SecretHeader = "api-secret"

// Credential returns the lowercase SHA-1 hex digest of secret, or false
// when the secret is blank. The remote protocol compares this digest
// directly, so it is neither salted nor varied per request.
func Credential(secret string) (string, bool) {
	if strings.TrimSpace(secret) == "" {
		return "", false
	}
	sum := sha1.Sum([]byte(secret))
	return hex.EncodeToString(sum[:]), true
}

func (e Endpoint) authorize(h http.Header) {
	if v, ok := Credential(e.secret); ok {
		h.Set(SecretHeader, v)
	}
}
