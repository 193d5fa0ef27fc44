package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_abc123"

func signPaystack(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func chargeSuccessBody() []byte {
	return []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "8gq2kk7b1x",
			"amount": 5000,
			"currency": "GHS",
			"channel": "mobile_money",
			"paid_at": "2025-01-15T10:30:00Z",
			"customer": {"email": "parent@example.com"},
			"metadata": {"student_id_display": "224STU1234"}
		}
	}`)
}

func TestPaystackVerifySignature(t *testing.T) {
	p := NewPaystack(testSecret)
	body := chargeSuccessBody()
	sig := signPaystack(testSecret, body)

	assert.NoError(t, p.VerifySignature(body, sig))
}

func TestPaystackVerifySignatureBitFlip(t *testing.T) {
	p := NewPaystack(testSecret)
	body := chargeSuccessBody()
	sig := signPaystack(testSecret, body)

	// Any single-bit mutation of the body must be rejected.
	mutated := append([]byte(nil), body...)
	mutated[10] ^= 0x01
	assert.ErrorIs(t, p.VerifySignature(mutated, sig), ErrInvalidSignature)
}

func TestPaystackVerifySignatureMissingHeader(t *testing.T) {
	p := NewPaystack(testSecret)
	assert.ErrorIs(t, p.VerifySignature(chargeSuccessBody(), ""), ErrMissingSignature)
}

func TestPaystackVerifySignatureMissingSecret(t *testing.T) {
	p := NewPaystack("")
	body := chargeSuccessBody()
	assert.ErrorIs(t, p.VerifySignature(body, signPaystack(testSecret, body)), ErrMissingSecret)
}

func TestPaystackParseChargeSuccess(t *testing.T) {
	p := NewPaystack(testSecret)

	ev, err := p.ParseEvent(chargeSuccessBody())
	require.NoError(t, err)

	assert.Equal(t, "paystack", ev.Provider)
	assert.Equal(t, PaystackEventChargeSuccess, ev.Type)
	assert.True(t, ev.IsSuccess())
	assert.Equal(t, "8gq2kk7b1x", ev.Reference)
	assert.Equal(t, int64(5000), ev.AmountMinor)
	assert.Equal(t, "GHS", ev.Currency)
	assert.Equal(t, "224STU1234", ev.StudentIDDisplay)
	assert.Equal(t, "parent@example.com", ev.PayerEmail)
	assert.Equal(t, "mobile_money", ev.Channel)
	assert.False(t, ev.Donation)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), ev.PaidAt.UTC())
}

func TestPaystackParseDonationFlag(t *testing.T) {
	p := NewPaystack(testSecret)
	body := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "don-1",
			"amount": 100000,
			"currency": "GHS",
			"metadata": {"donation": "true"}
		}
	}`)

	ev, err := p.ParseEvent(body)
	require.NoError(t, err)
	assert.True(t, ev.Donation)
}

func TestPaystackParseMissingStudent(t *testing.T) {
	p := NewPaystack(testSecret)
	body := []byte(`{
		"event": "charge.success",
		"data": {"reference": "no-student", "amount": 5000, "metadata": {}}
	}`)

	_, err := p.ParseEvent(body)
	assert.ErrorIs(t, err, ErrMissingStudent)
}

func TestPaystackParseNonSuccessEventNeedsNoStudent(t *testing.T) {
	p := NewPaystack(testSecret)
	body := []byte(`{
		"event": "transfer.success",
		"data": {"reference": "trf-1", "amount": 5000}
	}`)

	ev, err := p.ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "transfer.success", ev.Type)
	assert.False(t, ev.IsSuccess())
}

func TestPaystackParseLooseMetadata(t *testing.T) {
	p := NewPaystack(testSecret)
	// Paystack sends metadata as "" when the charge had none.
	body := []byte(`{
		"event": "charge.refunded",
		"data": {"reference": "r-1", "amount": 5000, "metadata": ""}
	}`)

	ev, err := p.ParseEvent(body)
	require.NoError(t, err)
	assert.Empty(t, ev.StudentIDDisplay)
}

func TestPaystackParseBadPayload(t *testing.T) {
	p := NewPaystack(testSecret)
	_, err := p.ParseEvent([]byte(`{"event":`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestPaystackVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/8gq2kk7b1x", r.URL.Path)
		assert.Equal(t, "Bearer "+testSecret, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"reference": "8gq2kk7b1x",
				"amount": 5000,
				"currency": "GHS",
				"channel": "card",
				"paid_at": "2025-01-15T10:30:00Z",
				"customer": {"email": "parent@example.com"},
				"metadata": {"student_id_display": "224STU1234"}
			}
		}`)
	}))
	defer srv.Close()

	p := NewPaystack(testSecret)
	p.baseURL = srv.URL

	ev, err := p.VerifyTransaction(context.Background(), "8gq2kk7b1x")
	require.NoError(t, err)
	assert.Equal(t, PaystackEventChargeSuccess, ev.Type)
	assert.Equal(t, int64(5000), ev.AmountMinor)
	assert.Equal(t, "224STU1234", ev.StudentIDDisplay)
}

func TestPaystackVerifyTransactionNotSuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": true, "data": {"status": "abandoned", "reference": "x"}}`)
	}))
	defer srv.Close()

	p := NewPaystack(testSecret)
	p.baseURL = srv.URL

	_, err := p.VerifyTransaction(context.Background(), "x")
	assert.Error(t, err)
}
