package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/features/academics/reconciliation/controller"
)

func AdminRoutes(r fiber.Router, db *gorm.DB) {
	controller.NewReconciliationController(db).RegisterRoutes(r)
}
