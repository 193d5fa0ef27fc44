package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	feesRoute "schoolpay_backend/internals/features/academics/fees/route"
	reconRoute "schoolpay_backend/internals/features/academics/reconciliation/route"
	studentsRoute "schoolpay_backend/internals/features/academics/students/route"
	paymentsRoute "schoolpay_backend/internals/features/finance/payments/route"
	adminsRoute "schoolpay_backend/internals/features/users/admins/route"
	"schoolpay_backend/internals/middlewares"
	authMiddleware "schoolpay_backend/internals/middlewares/auth"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config) {
	// ===================== WEBHOOKS (provider-signed, no JWT) =====================
	log.Println("[INFO] Setting up webhook routes...")
	webhooks := app.Group("/webhooks")
	paymentsRoute.WebhookRoutes(webhooks, db, cfg)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up auth routes...")
	auth := app.Group("/api/auth", middlewares.LoginRateLimiter())
	adminsRoute.AuthRoutes(auth, db, cfg)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up admin group (JWT + role check)...")
	admin := app.Group("/api/a",
		middlewares.GlobalRateLimiter(),
		authMiddleware.AdminJWT(cfg.JWTSecret),
	)

	paymentsRoute.AdminRoutes(admin, db, cfg)
	feesRoute.AdminRoutes(admin, db)
	studentsRoute.AdminRoutes(admin, db)
	reconRoute.AdminRoutes(admin, db)
}
