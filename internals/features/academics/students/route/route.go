package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/students/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	controller.NewStudentController(db).RegisterRoutes(r)
}
