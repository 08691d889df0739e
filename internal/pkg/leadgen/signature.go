package leadgen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign computes the hex-encoded HMAC-SHA256 of the raw request body with the
// provider's shared secret. Every supported ad platform signs the body this
// way; only the header carrying the signature differs.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature validates a webhook signature against the raw body.
// The signature may carry a "sha256=" prefix (Meta style); comparison is
// constant-time and case-insensitive on the hex digest.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" || signature == "" {
		return false
	}
	signature = strings.TrimPrefix(signature, "sha256=")
	expected := Sign(body, secret)
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}
