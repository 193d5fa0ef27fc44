package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	PaymentMethodPaystack = "paystack"
	PaymentMethodStripe   = "stripe"
	PaymentMethodManual   = "manual"
)

const (
	PaymentStatusSuccess = "success"
)

/* ===================== Model ===================== */

// Payment is one row of the append-only ledger. Rows are created by the
// webhook controllers or the verify-by-reference fallback and never mutated
// afterwards.
//
// The unique index on payment_reference is the idempotency guard: a webhook
// redelivery hits the constraint and is reported back as success without a
// second row.
type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	// Provider-prefixed transaction reference, e.g. "PS-8gq2k..." / "ST-pi_...".
	PaymentReference string `gorm:"column:payment_reference;type:varchar(128);not null;uniqueIndex" json:"payment_reference"`

	PaymentStudentID      *uuid.UUID `gorm:"column:payment_student_id;type:uuid;index" json:"payment_student_id,omitempty"`
	PaymentStudentDisplay string     `gorm:"column:payment_student_display;type:varchar(32);not null;index" json:"payment_student_display"`

	// Major currency units (minor units / 100 at ingestion).
	PaymentAmount   decimal.Decimal `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentCurrency string          `gorm:"column:payment_currency;type:varchar(8);not null;default:'GHS'" json:"payment_currency"`

	PaymentMethod  string  `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	PaymentStatus  string  `gorm:"column:payment_status;type:varchar(16);not null;default:'success'" json:"payment_status"`
	PaymentChannel *string `gorm:"column:payment_channel;type:varchar(32)" json:"payment_channel,omitempty"`

	PaymentPayerEmail *string `gorm:"column:payment_payer_email;type:varchar(128)" json:"payment_payer_email,omitempty"`

	PaymentPaidAt time.Time `gorm:"column:payment_paid_at;not null;index" json:"payment_paid_at"`

	PaymentMeta datatypes.JSONMap `gorm:"column:payment_meta;type:jsonb" json:"payment_meta,omitempty"`

	CreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
