package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/students/dto"
	"schoolpay_backend/internals/features/academics/students/model"
	paymentService "schoolpay_backend/internals/features/finance/payments/service"
	helper "schoolpay_backend/internals/helpers"
)

/* =======================================================================
   Student controller (admin)
======================================================================= */

type StudentController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, validate: validator.New()}
}

func (h *StudentController) RegisterRoutes(r fiber.Router) {
	gr := r.Group("/students")
	gr.Get("/", h.ListStudents) // GET /students?grade=&status=&q=&page=&per_page=
	gr.Get("/:id", h.GetByID)
	gr.Post("/", h.CreateStudent)
	gr.Patch("/:id", h.PatchStudent)
}

func (h *StudentController) ListStudents(c *fiber.Ctx) error {
	db := h.DB.Model(&model.Student{})

	if g := strings.TrimSpace(c.Query("grade")); g != "" {
		db = db.Where("student_grade_level = ?", g)
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		db = db.Where("student_status = ?", strings.ToLower(s))
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		db = db.Where(`
			student_id_display ILIKE ?
			OR student_first_name ILIKE ?
			OR student_last_name ILIKE ?
		`, like, like, like)
	}

	paging := helper.ResolvePaging(c, 20, 200)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.Student
	if err := db.Order("student_id_display").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"pagination": helper.BuildPagination(paging, total, len(rows)),
		"data":       rows,
	})
}

func (h *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.Student
	if err := h.DB.First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(m)
}

func (h *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
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
			return fiber.NewError(fiber.StatusConflict, "student_id_display already in use")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

func (h *StudentController) PatchStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var m model.Student
	if err := h.DB.First(&m, "student_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var patch dto.UpdateStudentRequest
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
