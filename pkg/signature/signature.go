package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// Webhook signature verification for the scheduling providers. Both sign the
// raw request body with HMAC-SHA256 over a shared secret; they differ only in
// how the digest is encoded in the header.
//
// The comparison must run over the exact bytes received - re-serializing the
// parsed payload would change whitespace/field order and break verification.

// VerifyHex checks a Cal.com style signature header: the hex digest prefixed
// with "sha256=". Returns false on any mismatch, including length mismatch.
func VerifyHex(rawBody []byte, header, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	// hmac.Equal is constant-time and handles unequal lengths without panicking
	return hmac.Equal([]byte(header), []byte(expected))
}

// VerifyBase64 checks a Calendly style signature header: the raw digest,
// base64-encoded, with no prefix.
func VerifyBase64(rawBody []byte, header, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(header), []byte(expected))
}

// SignHex computes the Cal.com form of a body signature. Used by tests and
// tooling that need to produce valid deliveries.
func SignHex(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// SignBase64 computes the Calendly form of a body signature.
func SignBase64(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
