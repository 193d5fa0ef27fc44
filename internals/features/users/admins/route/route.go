package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	"schoolpay_backend/internals/features/users/admins/controller"
)

func AuthRoutes(r fiber.Router, db *gorm.DB, cfg *configs.Config) {
	controller.NewAuthController(db, cfg).RegisterRoutes(r)
}
