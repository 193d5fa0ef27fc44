package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PlatformFee records the platform's cut of a single gateway payment.
// Written on the Stripe path alongside the ledger row.
type PlatformFee struct {
	PlatformFeeID uuid.UUID `gorm:"column:platform_fee_id;type:uuid;primaryKey" json:"platform_fee_id"`

	PlatformFeePaymentID uuid.UUID `gorm:"column:platform_fee_payment_id;type:uuid;not null;index" json:"platform_fee_payment_id"`
	PlatformFeeGateway   string    `gorm:"column:platform_fee_gateway;type:varchar(16);not null" json:"platform_fee_gateway"`

	PlatformFeeAmount   decimal.Decimal `gorm:"column:platform_fee_amount;type:numeric(12,2);not null" json:"platform_fee_amount"`
	PlatformFeeCurrency string          `gorm:"column:platform_fee_currency;type:varchar(8);not null" json:"platform_fee_currency"`

	CreatedAt time.Time `gorm:"column:platform_fee_created_at;autoCreateTime" json:"platform_fee_created_at"`
}

func (PlatformFee) TableName() string { return "platform_fees" }

func (f *PlatformFee) BeforeCreate(tx *gorm.DB) error {
	if f.PlatformFeeID == uuid.Nil {
		f.PlatformFeeID = uuid.New()
	}
	return nil
}

// RevenueRollup aggregates gateway revenue per calendar month. Maintained by
// an upsert keyed on (month, currency, gateway).
type RevenueRollup struct {
	RevenueRollupID uuid.UUID `gorm:"column:revenue_rollup_id;type:uuid;primaryKey" json:"revenue_rollup_id"`

	// "YYYY-MM"
	RevenueRollupMonth    string `gorm:"column:revenue_rollup_month;type:varchar(7);not null;uniqueIndex:idx_revenue_rollups_month_currency_gateway" json:"revenue_rollup_month"`
	RevenueRollupCurrency string `gorm:"column:revenue_rollup_currency;type:varchar(8);not null;uniqueIndex:idx_revenue_rollups_month_currency_gateway" json:"revenue_rollup_currency"`
	RevenueRollupGateway  string `gorm:"column:revenue_rollup_gateway;type:varchar(16);not null;uniqueIndex:idx_revenue_rollups_month_currency_gateway" json:"revenue_rollup_gateway"`

	RevenueRollupGrossTotal   decimal.Decimal `gorm:"column:revenue_rollup_gross_total;type:numeric(14,2);not null" json:"revenue_rollup_gross_total"`
	RevenueRollupFeeTotal     decimal.Decimal `gorm:"column:revenue_rollup_fee_total;type:numeric(14,2);not null" json:"revenue_rollup_fee_total"`
	RevenueRollupPaymentCount int             `gorm:"column:revenue_rollup_payment_count;not null;default:0" json:"revenue_rollup_payment_count"`

	CreatedAt time.Time `gorm:"column:revenue_rollup_created_at;autoCreateTime" json:"revenue_rollup_created_at"`
	UpdatedAt time.Time `gorm:"column:revenue_rollup_updated_at;autoUpdateTime" json:"revenue_rollup_updated_at"`
}

func (RevenueRollup) TableName() string { return "revenue_rollups" }

func (r *RevenueRollup) BeforeCreate(tx *gorm.DB) error {
	if r.RevenueRollupID == uuid.Nil {
		r.RevenueRollupID = uuid.New()
	}
	return nil
}
