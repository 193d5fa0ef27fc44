package controller

import (
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	"schoolpay_backend/internals/features/finance/payments/dto"
	"schoolpay_backend/internals/features/finance/payments/gateway"
	"schoolpay_backend/internals/features/finance/payments/model"
	"schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Payment controller (admin)
======================================================================= */

type PaymentController struct {
	DB       *gorm.DB
	Paystack *gateway.Paystack
	validate *validator.Validate
}

func NewPaymentController(db *gorm.DB, cfg *configs.Config) *PaymentController {
	return &PaymentController{
		DB:       db,
		Paystack: gateway.NewPaystack(cfg.PaystackSecretKey),
		validate: validator.New(),
	}
}

func (h *PaymentController) RegisterRoutes(r fiber.Router) {
	gr := r.Group("/payments")
	gr.Get("/", h.ListPayments) // GET /payments?student=&gateway=&start=&end=&page=&per_page=
	gr.Get("/:id", h.GetByID)   // GET /payments/:id
	gr.Post("/verify", h.VerifyByReference)
}

/* =======================================================================
   List (filter + pagination)
   Query params:
     - student: student display id (exact)
     - gateway: paystack|stripe|manual
     - start, end: RFC3339, filter paid_at
     - page, per_page
======================================================================= */

func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	db := h.DB.Model(&model.Payment{})

	if s := strings.TrimSpace(c.Query("student")); s != "" {
		db = db.Where("payment_student_display = ?", s)
	}
	if g := strings.ToLower(strings.TrimSpace(c.Query("gateway"))); g != "" {
		switch g {
		case model.PaymentMethodPaystack, model.PaymentMethodStripe, model.PaymentMethodManual:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "invalid gateway (want paystack|stripe|manual)")
		}
		db = db.Where("payment_method = ?", g)
	}
	if start := strings.TrimSpace(c.Query("start")); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start (use RFC3339)")
		}
		db = db.Where("payment_paid_at >= ?", t)
	}
	if end := strings.TrimSpace(c.Query("end")); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end (use RFC3339)")
		}
		db = db.Where("payment_paid_at < ?", t)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Payment
	if err := db.Order("payment_paid_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromPaymentModel(&rows[i]))
	}

	return c.JSON(fiber.Map{
		"pagination": helper.BuildPagination(paging, total, len(out)),
		"data":       out,
	})
}

func (h *PaymentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.Payment
	if err := h.DB.First(&m, "payment_id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(dto.FromPaymentModel(&m))
}

/* =======================================================================
   Verify-by-reference fallback

   Used when the client redirects back from hosted checkout before (or
   instead of) the webhook arriving. Same recorder path, so the webhook
   and this call can race harmlessly — whichever inserts second hits the
   unique constraint and reports the existing row.
======================================================================= */

func (h *PaymentController) VerifyByReference(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	ev, err := h.Paystack.VerifyTransaction(c.UserContext(), req.Reference)
	if err != nil {
		switch {
		case err == gateway.ErrMissingSecret:
			return helper.Error(c, fiber.StatusInternalServerError, "Gateway not configured")
		case err == gateway.ErrMissingStudent:
			return helper.Error(c, fiber.StatusBadRequest, "student_id_display missing from metadata")
		default:
			log.Printf("[WARN] verify %s: %v", req.Reference, err)
			return helper.Error(c, fiber.StatusBadGateway, "Verification failed")
		}
	}

	outcome, payment, err := service.RecordGatewayPayment(h.DB, ev, h.Paystack.ReferencePrefix())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	switch outcome {
	case service.OutcomeDonation:
		return helper.Success(c, "Donation acknowledged", nil)
	case service.OutcomeDuplicate:
		return helper.Success(c, "Payment already recorded", dto.FromPaymentModel(payment))
	default:
		return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment recorded", dto.FromPaymentModel(payment))
	}
}
