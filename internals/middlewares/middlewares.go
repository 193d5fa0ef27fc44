package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"schoolpay_backend/internals/configs"
)

// SetupMiddlewares wires the base middleware stack. Order matters: recovery
// first so panics in later middleware are still caught.
func SetupMiddlewares(app *fiber.App, cfg *configs.Config) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware(cfg.CORSOrigins))
}
