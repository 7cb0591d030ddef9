// Package webhook receives and verifies signed TelePay event callbacks.
package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
)

// Event names delivered for invoice lifecycle transitions.
const (
	EventInvoiceCompleted = "invoice.completed"
	EventInvoiceCancelled = "invoice.cancelled"
	EventInvoiceExpired   = "invoice.expired"
	EventInvoiceDeleted   = "invoice.deleted"
)

// IsInvoiceEvent reports whether name is one of the invoice lifecycle events.
func IsInvoiceEvent(name string) bool {
	switch name {
	case EventInvoiceCompleted, EventInvoiceCancelled, EventInvoiceExpired, EventInvoiceDeleted:
		return true
	}
	return false
}

// Signature computes the TelePay webhook signature for a payload. The chain
// must match the server bit for bit:
//
//	hash_secret = hex(sha1(secret))
//	hash_data   = hex(sha512(payload))
//	signature   = hex(sha512(hash_secret + hash_data))
func Signature(secret, payload string) string {
	hashSecret := sha1.Sum([]byte(secret))
	hashData := sha512.Sum512([]byte(payload))

	chain := hex.EncodeToString(hashSecret[:]) + hex.EncodeToString(hashData[:])
	signature := sha512.Sum512([]byte(chain))
	return hex.EncodeToString(signature[:])
}

// Verify recomputes the signature from the locally held secret and the raw
// payload and compares it in constant time against the received header value.
func Verify(secret, payload, received string) bool {
	expected := Signature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(received))
}
