package gateway

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	StripeEventPaymentSucceeded = "payment_intent.succeeded"
	StripeEventPaymentFailed    = "payment_intent.payment_failed"
	StripeEventTransferCreated  = "transfer.created"
	StripeEventAccountUpdated   = "account.updated"

	stripeSignatureHeader = "Stripe-Signature"
)

/* =========================================================
   Stripe provider
========================================================= */

// Stripe verifies webhooks through the official SDK's signed-header scheme
// (t=timestamp,v1=HMAC-SHA256). The webhook secret comes from the
// gateway_settings table, so the provider is constructed per request.
type Stripe struct {
	webhookSecret string
}

func NewStripe(webhookSecret string) *Stripe {
	return &Stripe{webhookSecret: webhookSecret}
}

func (s *Stripe) Name() string            { return "stripe" }
func (s *Stripe) SignatureHeader() string { return stripeSignatureHeader }
func (s *Stripe) ReferencePrefix() string { return "ST-" }

func (s *Stripe) VerifySignature(body []byte, header string) error {
	if s.webhookSecret == "" {
		return ErrMissingSecret
	}
	if header == "" {
		return ErrMissingSignature
	}
	_, err := webhook.ConstructEventWithOptions(body, header, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}

func (s *Stripe) ParseEvent(body []byte) (*Event, error) {
	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrBadPayload)
	}

	ev := &Event{
		Provider: s.Name(),
		Type:     string(event.Type),
		PaidAt:   time.Unix(event.Created, 0).UTC(),
	}

	switch event.Type {
	case StripeEventPaymentSucceeded, StripeEventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: payment_intent: %v", ErrBadPayload, err)
		}
		ev.Reference = pi.ID
		ev.AmountMinor = pi.Amount
		ev.FeeMinor = pi.ApplicationFeeAmount
		ev.Currency = strings.ToUpper(string(pi.Currency))
		ev.StudentIDDisplay = strings.TrimSpace(pi.Metadata["student_id_display"])
		ev.Donation = strings.EqualFold(strings.TrimSpace(pi.Metadata["donation"]), "true")
		if pi.ReceiptEmail != "" {
			ev.PayerEmail = pi.ReceiptEmail
		}
	default:
		// transfer.created, account.updated and anything newer: typed enough
		// for the audit trail, nothing to normalize.
		if id := rawObjectID(event.Data.Raw); id != "" {
			ev.Reference = id
		}
	}

	if ev.Type == StripeEventPaymentSucceeded && !ev.Donation && ev.StudentIDDisplay == "" {
		return nil, ErrMissingStudent
	}

	return ev, nil
}

func rawObjectID(raw json.RawMessage) string {
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	return obj.ID
}
