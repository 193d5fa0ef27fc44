package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"schoolpay_backend/internals/configs"
	"schoolpay_backend/internals/features/finance/payments/gateway"
	"schoolpay_backend/internals/features/finance/payments/model"
	"schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Webhook controller

   Unauthenticated by design — the provider signature is the auth.
   Responses stay coarse (status + short message): the caller is the
   payment provider, which only needs to know whether to retry.
     401  signature missing/invalid        → do not retry
     400  payload unusable                 → do not retry
     200  processed / duplicate / ignored  → stop retrying
     500  config or DB trouble             → retry later
======================================================================= */

type WebhookController struct {
	DB       *gorm.DB
	Paystack *gateway.Paystack
}

func NewWebhookController(db *gorm.DB, cfg *configs.Config) *WebhookController {
	return &WebhookController{
		DB:       db,
		Paystack: gateway.NewPaystack(cfg.PaystackSecretKey),
	}
}

func (h *WebhookController) RegisterRoutes(r fiber.Router) {
	r.Post("/paystack", h.HandlePaystack)
	r.Post("/stripe", h.HandleStripe)
}

func (h *WebhookController) HandlePaystack(c *fiber.Ctx) error {
	return h.handle(c, h.Paystack)
}

func (h *WebhookController) HandleStripe(c *fiber.Ctx) error {
	// The Stripe signing secret rotates with the endpoint registration, so
	// it lives in gateway_settings rather than the process environment.
	var setting model.GatewaySetting
	if err := h.DB.First(&setting, "gateway_setting_gateway = ? AND gateway_setting_enabled", model.GatewayStripe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("[ERROR] stripe webhook: no enabled gateway_settings row")
			return helper.Error(c, fiber.StatusInternalServerError, "Gateway not configured")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Gateway configuration unavailable")
	}
	return h.handle(c, gateway.NewStripe(setting.GatewaySettingWebhookSecret))
}

func (h *WebhookController) handle(c *fiber.Ctx, provider gateway.Provider) error {
	// fasthttp reuses request buffers; keep our own copy of the raw body.
	body := append([]byte(nil), c.Body()...)
	sig := c.Get(provider.SignatureHeader())

	if err := provider.VerifySignature(body, sig); err != nil {
		switch {
		case errors.Is(err, gateway.ErrMissingSecret):
			log.Printf("[ERROR] %s webhook: %v", provider.Name(), err)
			return helper.Error(c, fiber.StatusInternalServerError, "Gateway not configured")
		default:
			log.Printf("[WARN] %s webhook: %v", provider.Name(), err)
			h.writeAudit(provider.Name(), "unknown", nil, body, sig, model.GatewayEventStatusFailed, err.Error())
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid signature")
		}
	}

	ev, err := provider.ParseEvent(body)
	if err != nil {
		if errors.Is(err, gateway.ErrMissingStudent) {
			h.writeAudit(provider.Name(), "unknown", nil, body, sig, model.GatewayEventStatusFailed, err.Error())
			return helper.Error(c, fiber.StatusBadRequest, "student_id_display missing from metadata")
		}
		log.Printf("[WARN] %s webhook: %v", provider.Name(), err)
		h.writeAudit(provider.Name(), "unknown", nil, body, sig, model.GatewayEventStatusFailed, err.Error())
		return helper.Error(c, fiber.StatusBadRequest, "Malformed payload")
	}

	extID := ev.Reference

	switch {
	case ev.IsSuccess():
		// fall through below

	case ev.Type == gateway.StripeEventPaymentFailed:
		log.Printf("[WARN] %s payment failed: ref=%s", provider.Name(), ev.Reference)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusProcessed, "")
		return helper.Success(c, "Payment failure acknowledged", nil)

	case ev.Type == gateway.StripeEventTransferCreated,
		ev.Type == gateway.StripeEventAccountUpdated:
		log.Printf("[INFO] %s event acknowledged: type=%s ref=%s", provider.Name(), ev.Type, ev.Reference)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusProcessed, "")
		return helper.Success(c, "Event acknowledged", nil)

	default:
		// Unrecognized types get a 200 so the provider stops retrying events
		// this system does not care about.
		log.Printf("[INFO] %s event ignored: type=%s", provider.Name(), ev.Type)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusIgnored, "")
		return helper.Success(c, "Event ignored", nil)
	}

	var (
		outcome service.RecordOutcome
		payment *model.Payment
	)
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var txErr error
		outcome, payment, txErr = service.RecordGatewayPayment(tx, ev, provider.ReferencePrefix())
		if txErr != nil {
			return txErr
		}
		if outcome == service.OutcomeInserted && provider.Name() == model.GatewayStripe {
			return service.RecordPlatformFee(tx, payment, ev)
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] %s webhook: record failed: ref=%s err=%v", provider.Name(), ev.Reference, err)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusFailed, err.Error())
		return helper.Error(c, fiber.StatusInternalServerError, "Could not record payment")
	}

	switch outcome {
	case service.OutcomeDonation:
		log.Printf("[INFO] %s donation acknowledged: ref=%s", provider.Name(), ev.Reference)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusIgnored, "")
		return helper.Success(c, "Donation acknowledged", nil)

	case service.OutcomeDuplicate:
		log.Printf("[INFO] %s webhook redelivery: ref=%s", provider.Name(), ev.Reference)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusDuplicated, "")
		return helper.Success(c, "Payment already recorded", fiber.Map{
			"payment_id": payment.PaymentID,
		})

	default:
		log.Printf("[INFO] %s payment recorded: ref=%s amount=%s %s", provider.Name(), payment.PaymentReference, payment.PaymentAmount, payment.PaymentCurrency)
		h.writeAudit(provider.Name(), ev.Type, auditID(extID), body, sig, model.GatewayEventStatusProcessed, "")
		return helper.Success(c, "Payment recorded", fiber.Map{
			"payment_id": payment.PaymentID,
		})
	}
}

/* ===================== Audit trail ===================== */

// writeAudit appends one row per delivery attempt. Best effort: a failed
// audit insert is logged, never surfaced to the provider. Redeliveries of the
// same (provider, external_id, type) are collapsed by the unique index.
func (h *WebhookController) writeAudit(provider, eventType string, externalID *string, payload []byte, sig, status, errMsg string) {
	now := time.Now().UTC()
	row := &model.PaymentGatewayEvent{
		PaymentGatewayEventProvider:   provider,
		PaymentGatewayEventType:       eventType,
		PaymentGatewayEventExternalID: externalID,
		PaymentGatewayEventPayload:    payload,
		PaymentGatewayEventStatus:     status,
		PaymentGatewayEventReceivedAt: now,
	}
	if sig != "" {
		row.PaymentGatewayEventSignature = &sig
	}
	if errMsg != "" {
		row.PaymentGatewayEventError = &errMsg
	}
	if status != model.GatewayEventStatusReceived {
		row.PaymentGatewayEventProcessedAt = &now
	}

	if err := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
		log.Printf("[WARN] gateway event audit insert failed: %v", err)
	}
}

func auditID(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
