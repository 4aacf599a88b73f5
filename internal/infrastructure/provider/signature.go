package provider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/erp/fulfillment-sync/internal/domain/fulfillment"
)

// Webhook headers set by the provider
const (
	HeaderEventType = "x-bigblue-event-type"
	HeaderSignature = "x-bigblue-hmac-sha256"

	// EventTypeURLVerification marks the challenge sent when a webhook URL is registered
	EventTypeURLVerification = "URL_VERIFICATION"
)

// Sign returns base64(HMAC-SHA256(secret, body))
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a webhook signature against the raw body using a
// constant-time comparison
func VerifySignature(secret string, body []byte, signature string) error {
	if signature == "" {
		return fulfillment.ErrMissingSignature
	}
	expected := Sign(secret, body)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return fulfillment.ErrInvalidSignature
	}
	return nil
}
