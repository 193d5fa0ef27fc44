package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/finance/payments/dto"
	"schoolpay_backend/internals/features/finance/payments/model"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Gateway event controller (admin, read-only)

   Browse the webhook audit trail. Rows are written by the webhook
   controller only; there is no create/update surface here.
======================================================================= */

type GatewayEventController struct {
	DB *gorm.DB
}

func NewGatewayEventController(db *gorm.DB) *GatewayEventController {
	return &GatewayEventController{DB: db}
}

func (h *GatewayEventController) RegisterRoutes(r fiber.Router) {
	gr := r.Group("/gateway-events")
	gr.Get("/", h.ListEvents) // GET /gateway-events?provider=&status=&q=&start=&end=&page=&per_page=
	gr.Get("/:id", h.GetByID)
}

func (h *GatewayEventController) ListEvents(c *fiber.Ctx) error {
	db := h.DB.Model(&model.PaymentGatewayEvent{})

	if p := strings.TrimSpace(c.Query("provider")); p != "" {
		db = db.Where("gateway_event_provider = ?", strings.ToLower(p))
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		db = db.Where("gateway_event_status = ?", strings.ToLower(s))
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		db = db.Where("COALESCE(gateway_event_external_id,'') ILIKE ?", like)
	}
	if start := strings.TrimSpace(c.Query("start")); start != "" {
		t, err := time.Parse(time.RFC3339, start)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid start (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at >= ?", t)
	}
	if end := strings.TrimSpace(c.Query("end")); end != "" {
		t, err := time.Parse(time.RFC3339, end)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid end (use RFC3339)")
		}
		db = db.Where("gateway_event_received_at < ?", t)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.PaymentGatewayEvent
	if err := db.Order("gateway_event_received_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	out := make([]*dto.GatewayEventResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromGatewayEventModel(&rows[i]))
	}

	return c.JSON(fiber.Map{
		"pagination": helper.BuildPagination(paging, total, len(out)),
		"data":       out,
	})
}

func (h *GatewayEventController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.PaymentGatewayEvent
	if err := h.DB.First(&m, "gateway_event_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "event not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// Detail view includes the raw payload for dispute replay.
	return c.JSON(fiber.Map{
		"event":   dto.FromGatewayEventModel(&m),
		"payload": m.PaymentGatewayEventPayload,
	})
}
