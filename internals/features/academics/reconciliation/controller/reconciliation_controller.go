package controller

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/reconciliation/model"
	"schoolpay_backend/internals/features/academics/reconciliation/service"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Reconciliation controller (admin)

   The caller is a trusted internal user, so unlike the webhook surface
   the failure response carries the raw error text.
======================================================================= */

type ReconciliationController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewReconciliationController(db *gorm.DB) *ReconciliationController {
	return &ReconciliationController{DB: db, validate: validator.New()}
}

func (h *ReconciliationController) RegisterRoutes(r fiber.Router) {
	gr := r.Group("/reconciliation")
	gr.Post("/run", h.RunEndOfYear)
	gr.Get("/arrears", h.ListArrears) // GET /reconciliation/arrears?from=&to=
	gr.Patch("/arrears/:id/clear", h.ClearArrear)
}

type runRequest struct {
	PreviousAcademicYear string `json:"previous_academic_year" validate:"required"`
}

func (h *ReconciliationController) RunEndOfYear(c *fiber.Ctx) error {
	var req runRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	year := strings.TrimSpace(req.PreviousAcademicYear)
	if _, err := service.ParseAcademicYear(year); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	res, err := service.RunEndOfYear(h.DB, year)
	if err != nil {
		log.Printf("[ERROR] reconciliation %s: %v", req.PreviousAcademicYear, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": res.Message(),
		"data":    res,
	})
}

func (h *ReconciliationController) ListArrears(c *fiber.Ctx) error {
	db := h.DB.Model(&model.ArrearRecord{})

	if from := strings.TrimSpace(c.Query("from")); from != "" {
		db = db.Where("arrear_academic_year_from = ?", from)
	}
	if to := strings.TrimSpace(c.Query("to")); to != "" {
		db = db.Where("arrear_academic_year_to = ?", to)
	}

	var rows []model.ArrearRecord
	if err := db.Order("arrear_student_display").Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ClearArrear marks an outstanding balance as settled (e.g. paid in cash at
// the school office). One-way: a cleared arrear is never reopened, the next
// year-end recompute replaces the batch anyway.
func (h *ReconciliationController) ClearArrear(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.DB.Model(&model.ArrearRecord{}).
		Where("arrear_id = ? AND arrear_status = ?", id, model.ArrearStatusOutstanding).
		Update("arrear_status", model.ArrearStatusCleared)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "arrear not found or already cleared")
	}
	return helper.Success(c, "Arrear cleared", nil)
}
