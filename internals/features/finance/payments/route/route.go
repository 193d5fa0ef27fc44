package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	"schoolpay_backend/internals/features/finance/payments/controller"
)

// WebhookRoutes mounts the unauthenticated provider endpoints.
func WebhookRoutes(r fiber.Router, db *gorm.DB, cfg *configs.Config) {
	controller.NewWebhookController(db, cfg).RegisterRoutes(r)
}

// AdminRoutes mounts the authenticated payment/audit endpoints.
func AdminRoutes(r fiber.Router, db *gorm.DB, cfg *configs.Config) {
	controller.NewPaymentController(db, cfg).RegisterRoutes(r)
	controller.NewGatewayEventController(db).RegisterRoutes(r)
}
