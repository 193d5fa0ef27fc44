package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolpay_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Responses
========================================================= */

type PaymentResponse struct {
	PaymentID             uuid.UUID       `json:"payment_id"`
	PaymentReference      string          `json:"payment_reference"`
	PaymentStudentID      *uuid.UUID      `json:"payment_student_id,omitempty"`
	PaymentStudentDisplay string          `json:"payment_student_display"`
	PaymentAmount         decimal.Decimal `json:"payment_amount"`
	PaymentCurrency       string          `json:"payment_currency"`
	PaymentMethod         string          `json:"payment_method"`
	PaymentStatus         string          `json:"payment_status"`
	PaymentChannel        *string         `json:"payment_channel,omitempty"`
	PaymentPayerEmail     *string         `json:"payment_payer_email,omitempty"`
	PaymentPaidAt         time.Time       `json:"payment_paid_at"`
}

func FromPaymentModel(m *model.Payment) *PaymentResponse {
	return &PaymentResponse{
		PaymentID:             m.PaymentID,
		PaymentReference:      m.PaymentReference,
		PaymentStudentID:      m.PaymentStudentID,
		PaymentStudentDisplay: m.PaymentStudentDisplay,
		PaymentAmount:         m.PaymentAmount,
		PaymentCurrency:       m.PaymentCurrency,
		PaymentMethod:         m.PaymentMethod,
		PaymentStatus:         m.PaymentStatus,
		PaymentChannel:        m.PaymentChannel,
		PaymentPayerEmail:     m.PaymentPayerEmail,
		PaymentPaidAt:         m.PaymentPaidAt,
	}
}

type GatewayEventResponse struct {
	GatewayEventID         uuid.UUID  `json:"gateway_event_id"`
	GatewayEventProvider   string     `json:"gateway_event_provider"`
	GatewayEventType       string     `json:"gateway_event_type"`
	GatewayEventExternalID *string    `json:"gateway_event_external_id,omitempty"`
	GatewayEventStatus     string     `json:"gateway_event_status"`
	GatewayEventError      *string    `json:"gateway_event_error,omitempty"`
	GatewayEventReceivedAt time.Time  `json:"gateway_event_received_at"`
	GatewayEventProcessed  *time.Time `json:"gateway_event_processed_at,omitempty"`
}

func FromGatewayEventModel(m *model.PaymentGatewayEvent) *GatewayEventResponse {
	return &GatewayEventResponse{
		GatewayEventID:         m.PaymentGatewayEventID,
		GatewayEventProvider:   m.PaymentGatewayEventProvider,
		GatewayEventType:       m.PaymentGatewayEventType,
		GatewayEventExternalID: m.PaymentGatewayEventExternalID,
		GatewayEventStatus:     m.PaymentGatewayEventStatus,
		GatewayEventError:      m.PaymentGatewayEventError,
		GatewayEventReceivedAt: m.PaymentGatewayEventReceivedAt,
		GatewayEventProcessed:  m.PaymentGatewayEventProcessedAt,
	}
}

/* =========================================================
   Requests
========================================================= */

type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}
