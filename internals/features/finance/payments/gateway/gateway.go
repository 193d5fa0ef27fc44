package gateway

import (
	"errors"
	"time"
)

/* =========================================================
   Provider abstraction

   One implementation per payment gateway. The webhook
   controller and the recorder are written once against this
   interface; only signature scheme and payload shape differ
   per provider.
========================================================= */

// Sentinel errors. Controllers map these onto HTTP statuses:
// missing/invalid signature → 401, missing secret → 500,
// bad payload / missing student → 400.
var (
	ErrMissingSecret    = errors.New("gateway: signing secret not configured")
	ErrMissingSignature = errors.New("gateway: signature header missing")
	ErrInvalidSignature = errors.New("gateway: signature mismatch")
	ErrBadPayload       = errors.New("gateway: malformed payload")
	ErrMissingStudent   = errors.New("gateway: student identifier missing from metadata")
)

type Provider interface {
	// Name is the enum value stored on ledger and audit rows.
	Name() string

	// SignatureHeader is the request header carrying the provider signature.
	SignatureHeader() string

	// ReferencePrefix namespaces provider transaction references in the
	// ledger ("PS-", "ST-") so references from different gateways can never
	// collide on the unique constraint.
	ReferencePrefix() string

	// VerifySignature checks the raw body against the signature header value.
	// Fails closed: any missing input is an error. Must be called before
	// ParseEvent — nothing in the body is trusted until it passes.
	VerifySignature(body []byte, header string) error

	// ParseEvent normalizes the verified raw body into a canonical Event.
	ParseEvent(body []byte) (*Event, error)
}

// Event is the canonical, provider-neutral view of a webhook delivery.
type Event struct {
	Provider string
	Type     string

	// Provider-native transaction reference, unprefixed.
	Reference string

	// Minor currency units (pesewas/cents) as delivered by the provider.
	AmountMinor int64

	// Platform fee in minor units, if the provider reports one (Stripe
	// application fee). Zero otherwise.
	FeeMinor int64

	Currency string

	StudentIDDisplay string
	PayerEmail       string
	Channel          string

	PaidAt time.Time

	// Donation deliveries are acknowledged but never persisted as a fee
	// payment.
	Donation bool
}

// IsSuccess reports whether this event type records money received.
func (e *Event) IsSuccess() bool {
	switch e.Type {
	case PaystackEventChargeSuccess, StripeEventPaymentSucceeded:
		return true
	}
	return false
}
