package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	GatewayPaystack = "paystack"
	GatewayStripe   = "stripe"
)

const (
	GatewayEventStatusReceived   = "received"
	GatewayEventStatusProcessed  = "processed"
	GatewayEventStatusIgnored    = "ignored"
	GatewayEventStatusDuplicated = "duplicated"
	GatewayEventStatusFailed     = "failed"
)

/* ===================== Model ===================== */

// PaymentGatewayEvent is the audit trail of webhook deliveries: one row per
// delivery attempt, raw payload included, so disputes can be replayed against
// what the provider actually sent.
type PaymentGatewayEvent struct {
	PaymentGatewayEventID uuid.UUID `gorm:"column:gateway_event_id;type:uuid;primaryKey" json:"gateway_event_id"`

	PaymentGatewayEventProvider   string  `gorm:"column:gateway_event_provider;type:varchar(16);not null;uniqueIndex:idx_gateway_events_provider_external_type" json:"gateway_event_provider"`
	PaymentGatewayEventType       string  `gorm:"column:gateway_event_type;type:varchar(64);not null;uniqueIndex:idx_gateway_events_provider_external_type" json:"gateway_event_type"`
	PaymentGatewayEventExternalID *string `gorm:"column:gateway_event_external_id;type:varchar(128);uniqueIndex:idx_gateway_events_provider_external_type" json:"gateway_event_external_id,omitempty"`

	PaymentGatewayEventPayload   datatypes.JSON `gorm:"column:gateway_event_payload;type:jsonb" json:"gateway_event_payload,omitempty"`
	PaymentGatewayEventSignature *string        `gorm:"column:gateway_event_signature;type:varchar(256)" json:"gateway_event_signature,omitempty"`

	PaymentGatewayEventStatus string  `gorm:"column:gateway_event_status;type:varchar(16);not null;default:'received'" json:"gateway_event_status"`
	PaymentGatewayEventError  *string `gorm:"column:gateway_event_error" json:"gateway_event_error,omitempty"`

	PaymentGatewayEventReceivedAt  time.Time  `gorm:"column:gateway_event_received_at;not null;index" json:"gateway_event_received_at"`
	PaymentGatewayEventProcessedAt *time.Time `gorm:"column:gateway_event_processed_at" json:"gateway_event_processed_at,omitempty"`

	CreatedAt time.Time `gorm:"column:gateway_event_created_at;autoCreateTime" json:"gateway_event_created_at"`
}

func (PaymentGatewayEvent) TableName() string { return "payment_gateway_events" }

func (e *PaymentGatewayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.PaymentGatewayEventID == uuid.Nil {
		e.PaymentGatewayEventID = uuid.New()
	}
	return nil
}
