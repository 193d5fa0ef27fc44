package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	PaystackEventChargeSuccess = "charge.success"

	paystackSignatureHeader = "x-paystack-signature"
	paystackDefaultBaseURL  = "https://api.paystack.co"
)

/* =========================================================
   Paystack provider
========================================================= */

// Paystack verifies webhooks with a hex HMAC-SHA512 of the raw body keyed by
// the account secret key, and exposes the verify-by-reference API used as the
// synchronous fallback after a hosted-checkout redirect.
type Paystack struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystack(secretKey string) *Paystack {
	return &Paystack{
		secretKey: secretKey,
		baseURL:   paystackDefaultBaseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Paystack) Name() string            { return "paystack" }
func (p *Paystack) SignatureHeader() string { return paystackSignatureHeader }
func (p *Paystack) ReferencePrefix() string { return "PS-" }

func (p *Paystack) VerifySignature(body []byte, header string) error {
	if p.secretKey == "" {
		return ErrMissingSecret
	}
	if header == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(header)) {
		return ErrInvalidSignature
	}
	return nil
}

/* ===================== Payload ===================== */

type paystackPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
		// Paystack sends metadata as an object, but also as "" for charges
		// initiated without any — decode leniently.
		Metadata json.RawMessage `json:"metadata"`
	} `json:"data"`
}

func (p *Paystack) ParseEvent(body []byte) (*Event, error) {
	var payload paystackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if payload.Event == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrBadPayload)
	}

	meta := decodeLooseMetadata(payload.Data.Metadata)

	ev := &Event{
		Provider:         p.Name(),
		Type:             payload.Event,
		Reference:        payload.Data.Reference,
		AmountMinor:      payload.Data.Amount,
		Currency:         strings.ToUpper(payload.Data.Currency),
		StudentIDDisplay: metaString(meta, "student_id_display"),
		PayerEmail:       payload.Data.Customer.Email,
		Channel:          payload.Data.Channel,
		Donation:         metaBool(meta, "donation"),
	}
	if ev.Currency == "" {
		ev.Currency = "GHS"
	}
	if t, err := time.Parse(time.RFC3339, payload.Data.PaidAt); err == nil {
		ev.PaidAt = t
	}

	// Only success events need attribution; everything else is acknowledged
	// and ignored upstream.
	if ev.Type == PaystackEventChargeSuccess && !ev.Donation && ev.StudentIDDisplay == "" {
		return nil, ErrMissingStudent
	}

	return ev, nil
}

/* ===================== Verify-by-reference API ===================== */

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
		Channel   string `json:"channel"`
		PaidAt    string `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"data"`
}

// VerifyTransaction calls GET /transaction/verify/:reference and normalizes a
// successful charge into the same Event shape the webhook path produces.
func (p *Paystack) VerifyTransaction(ctx context.Context, reference string) (*Event, error) {
	if p.secretKey == "" {
		return nil, ErrMissingSecret
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrBadPayload)
	}

	url := fmt.Sprintf("%s/transaction/verify/%s", p.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify: HTTP %d", resp.StatusCode)
	}

	var vr paystackVerifyResponse
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if !vr.Status {
		return nil, fmt.Errorf("paystack verify: %s", vr.Message)
	}
	if vr.Data.Status != "success" {
		return nil, fmt.Errorf("paystack verify: transaction status %q", vr.Data.Status)
	}

	meta := decodeLooseMetadata(vr.Data.Metadata)

	ev := &Event{
		Provider:         p.Name(),
		Type:             PaystackEventChargeSuccess,
		Reference:        vr.Data.Reference,
		AmountMinor:      vr.Data.Amount,
		Currency:         strings.ToUpper(vr.Data.Currency),
		StudentIDDisplay: metaString(meta, "student_id_display"),
		PayerEmail:       vr.Data.Customer.Email,
		Channel:          vr.Data.Channel,
		Donation:         metaBool(meta, "donation"),
	}
	if ev.Currency == "" {
		ev.Currency = "GHS"
	}
	if t, err := time.Parse(time.RFC3339, vr.Data.PaidAt); err == nil {
		ev.PaidAt = t
	}
	if !ev.Donation && ev.StudentIDDisplay == "" {
		return nil, ErrMissingStudent
	}
	return ev, nil
}

/* ===================== Metadata helpers ===================== */

func decodeLooseMetadata(raw json.RawMessage) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func metaString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func metaBool(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	}
	return false
}
