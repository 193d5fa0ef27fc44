package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/fees/dto"
	"schoolpay_backend/internals/features/academics/fees/model"
	paymentService "schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Fee item controller (admin)
======================================================================= */

type FeeItemController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewFeeItemController(db *gorm.DB) *FeeItemController {
	return &FeeItemController{DB: db, validate: validator.New()}
}

func (h *FeeItemController) RegisterRoutes(r fiber.Router) {
	gr := r.Group("/fee-items")
	gr.Get("/", h.ListFeeItems) // GET /fee-items?grade=&year=
	gr.Post("/", h.CreateFeeItem)
	gr.Patch("/:id", h.PatchFeeItem)
	gr.Delete("/:id", h.DeleteFeeItem)
}

func (h *FeeItemController) ListFeeItems(c *fiber.Ctx) error {
	db := h.DB.Model(&model.FeeItem{})

	if g := strings.TrimSpace(c.Query("grade")); g != "" {
		db = db.Where("fee_item_grade_level = ?", g)
	}
	if y := strings.TrimSpace(c.Query("year")); y != "" {
		db = db.Where("fee_item_academic_year = ?", y)
	}

	var rows []model.FeeItem
	if err := db.Order("fee_item_academic_year DESC, fee_item_grade_level, fee_item_term").
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"data": rows})
}

func (h *FeeItemController) CreateFeeItem(c *fiber.Ctx) error {
	var req dto.CreateFeeItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel()
	if err := h.DB.Create(m).Error; err != nil {
		if paymentService.IsUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "fee item already defined for this grade/term/year")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *FeeItemController) PatchFeeItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.FeeItem
	if err := h.DB.First(&m, "fee_item_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "fee item not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var patch dto.UpdateFeeItemRequest
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := patch.Apply(&m); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.DB.Save(&m).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(m)
}

func (h *FeeItemController) DeleteFeeItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	res := h.DB.Delete(&model.FeeItem{}, "fee_item_id = ?", id)
	if res.Error != nil {
		return fiber.NewError(fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "fee item not found")
	}
	return helper.Success(c, "Fee item deleted", nil)
}
