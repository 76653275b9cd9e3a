package signature_test

import (
	"strings"
	"testing"

	"github.com/complyscan/complyscan-api/pkg/signature"
	"github.com/stretchr/testify/assert"
)

func TestVerifyHex_RoundTrip(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED","payload":{"bookingId":42}}`)
	secret := "test-webhook-secret"

	header := signature.SignHex(body, secret)
	assert.True(t, strings.HasPrefix(header, "sha256="))
	assert.True(t, signature.VerifyHex(body, header, secret))
}

func TestVerifyHex_MutatedBody(t *testing.T) {
	body := []byte(`{"triggerEvent":"BOOKING_CREATED","payload":{"bookingId":42}}`)
	secret := "test-webhook-secret"
	header := signature.SignHex(body, secret)

	// Flipping any single byte must invalidate the signature
	for i := range body {
		mutated := append([]byte(nil), body...)
		mutated[i] ^= 0x01
		assert.False(t, signature.VerifyHex(mutated, header, secret), "mutation at byte %d accepted", i)
	}
}

func TestVerifyHex_WrongSecret(t *testing.T) {
	body := []byte(`{"hello":"world"}`)
	header := signature.SignHex(body, "secret-a")
	assert.False(t, signature.VerifyHex(body, header, "secret-b"))
}

func TestVerifyHex_LengthMismatchDoesNotPanic(t *testing.T) {
	body := []byte(`{"hello":"world"}`)

	assert.NotPanics(t, func() {
		assert.False(t, signature.VerifyHex(body, "", "secret"))
		assert.False(t, signature.VerifyHex(body, "sha256=abc", "secret"))
		assert.False(t, signature.VerifyHex(body, strings.Repeat("f", 500), "secret"))
	})
}

func TestVerifyBase64_RoundTrip(t *testing.T) {
	body := []byte(`{"event":"invitee.created","payload":{"email":"jane@example.com"}}`)
	secret := "calendly-secret"

	header := signature.SignBase64(body, secret)
	assert.False(t, strings.HasPrefix(header, "sha256="))
	assert.True(t, signature.VerifyBase64(body, header, secret))
}

func TestVerifyBase64_MutatedBody(t *testing.T) {
	body := []byte(`{"event":"invitee.created"}`)
	secret := "calendly-secret"
	header := signature.SignBase64(body, secret)

	mutated := append([]byte(nil), body...)
	mutated[0] ^= 0x01
	assert.False(t, signature.VerifyBase64(mutated, header, secret))
}

func TestVerifyBase64_LengthMismatchDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, signature.VerifyBase64([]byte("body"), "short", "secret"))
		assert.False(t, signature.VerifyBase64([]byte("body"), "", "secret"))
	})
}

func TestHexAndBase64AreDistinctEncodings(t *testing.T) {
	body := []byte(`{"x":1}`)
	secret := "s"
	assert.False(t, signature.VerifyHex(body, signature.SignBase64(body, secret), secret))
	assert.False(t, signature.VerifyBase64(body, signature.SignHex(body, secret), secret))
}
