package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stripeTestSecret = "whsec_test_xyz"

// signStripe builds a Stripe-Signature header the way the provider does:
// v1 = HMAC-SHA256(secret, "<timestamp>.<payload>").
func signStripe(secret string, body []byte, ts time.Time) string {
	signed := fmt.Sprintf("%d.%s", ts.Unix(), body)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(signed))
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func paymentIntentSucceededBody() []byte {
	return []byte(`{
		"id": "evt_1ABC",
		"type": "payment_intent.succeeded",
		"created": 1736936000,
		"data": {
			"object": {
				"id": "pi_3XYZ",
				"object": "payment_intent",
				"amount": 5000,
				"currency": "ghs",
				"application_fee_amount": 250,
				"receipt_email": "parent@example.com",
				"metadata": {"student_id_display": "224STU1234"}
			}
		}
	}`)
}

func TestStripeVerifySignature(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := paymentIntentSucceededBody()
	header := signStripe(stripeTestSecret, body, time.Now())

	assert.NoError(t, s.VerifySignature(body, header))
}

func TestStripeVerifySignatureTamperedBody(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := paymentIntentSucceededBody()
	header := signStripe(stripeTestSecret, body, time.Now())

	mutated := append([]byte(nil), body...)
	mutated[20] ^= 0x01
	assert.ErrorIs(t, s.VerifySignature(mutated, header), ErrInvalidSignature)
}

func TestStripeVerifySignatureMissingInputs(t *testing.T) {
	body := paymentIntentSucceededBody()

	assert.ErrorIs(t, NewStripe("").VerifySignature(body, "t=1,v1=aa"), ErrMissingSecret)
	assert.ErrorIs(t, NewStripe(stripeTestSecret).VerifySignature(body, ""), ErrMissingSignature)
}

func TestStripeParsePaymentSucceeded(t *testing.T) {
	s := NewStripe(stripeTestSecret)

	ev, err := s.ParseEvent(paymentIntentSucceededBody())
	require.NoError(t, err)

	assert.Equal(t, "stripe", ev.Provider)
	assert.Equal(t, StripeEventPaymentSucceeded, ev.Type)
	assert.True(t, ev.IsSuccess())
	assert.Equal(t, "pi_3XYZ", ev.Reference)
	assert.Equal(t, int64(5000), ev.AmountMinor)
	assert.Equal(t, int64(250), ev.FeeMinor)
	assert.Equal(t, "GHS", ev.Currency)
	assert.Equal(t, "224STU1234", ev.StudentIDDisplay)
	assert.Equal(t, "parent@example.com", ev.PayerEmail)
}

func TestStripeParsePaymentFailed(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := []byte(`{
		"id": "evt_2",
		"type": "payment_intent.payment_failed",
		"created": 1736936000,
		"data": {"object": {"id": "pi_fail", "object": "payment_intent", "amount": 3000, "currency": "ghs"}}
	}`)

	ev, err := s.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, StripeEventPaymentFailed, ev.Type)
	assert.False(t, ev.IsSuccess())
	assert.Equal(t, "pi_fail", ev.Reference)
}

func TestStripeParseDonation(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := []byte(`{
		"id": "evt_3",
		"type": "payment_intent.succeeded",
		"created": 1736936000,
		"data": {"object": {"id": "pi_don", "object": "payment_intent", "amount": 10000, "currency": "ghs",
			"metadata": {"donation": "true"}}}
	}`)

	ev, err := s.ParseEvent(body)
	require.NoError(t, err)
	assert.True(t, ev.Donation)
}

func TestStripeParseMissingStudent(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := []byte(`{
		"id": "evt_4",
		"type": "payment_intent.succeeded",
		"created": 1736936000,
		"data": {"object": {"id": "pi_anon", "object": "payment_intent", "amount": 5000, "currency": "ghs"}}
	}`)

	_, err := s.ParseEvent(body)
	assert.ErrorIs(t, err, ErrMissingStudent)
}

func TestStripeParseUnrecognizedType(t *testing.T) {
	s := NewStripe(stripeTestSecret)
	body := []byte(`{
		"id": "evt_5",
		"type": "customer.created",
		"created": 1736936000,
		"data": {"object": {"id": "cus_1", "object": "customer"}}
	}`)

	ev, err := s.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "customer.created", ev.Type)
	assert.False(t, ev.IsSuccess())
	assert.Equal(t, "cus_1", ev.Reference)
}
