package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	"schoolpay_backend/internals/features/users/admins/dto"
	"schoolpay_backend/internals/features/users/admins/model"
	helper "schoolpay_backend/internals/helpers"
)

const tokenTTL = 24 * time.Hour

/* =======================================================================
   Auth controller
======================================================================= */

type AuthController struct {
	DB       *gorm.DB
	Cfg      *configs.Config
	validate *validator.Validate
}

func NewAuthController(db *gorm.DB, cfg *configs.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, validate: validator.New()}
}

func (h *AuthController) RegisterRoutes(r fiber.Router) {
	r.Post("/login", h.Login)
}

func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.validate.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var admin model.AdminUser
	err := h.DB.First(&admin, "admin_user_email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message as a bad password; no account enumeration.
			return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.AdminUserPasswordHash), []byte(req.Password)); err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	if h.Cfg.JWTSecret == "" {
		log.Println("[ERROR] login: JWT_SECRET is empty")
		return helper.Error(c, fiber.StatusInternalServerError, "Auth not configured")
	}

	expiresAt := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub":   admin.AdminUserID.String(),
		"email": admin.AdminUserEmail,
		"role":  admin.AdminUserRole,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return helper.Success(c, "Login successful", dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     dto.FromAdminModel(&admin),
	})
}

/* ===================== Bootstrap seed ===================== */

// SeedDefaultAdmin creates the first admin account from ADMIN_EMAIL /
// ADMIN_PASSWORD when the table is empty. No-op otherwise.
func SeedDefaultAdmin(db *gorm.DB, cfg *configs.Config) error {
	var count int64
	if err := db.Model(&model.AdminUser{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Println("⚠️ No admin users and no ADMIN_EMAIL/ADMIN_PASSWORD set — admin API unreachable")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.AdminUser{
		AdminUserEmail:        strings.ToLower(cfg.AdminEmail),
		AdminUserPasswordHash: string(hash),
		AdminUserName:         "Administrator",
		AdminUserRole:         model.AdminRoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Printf("✅ Seeded default admin %s", admin.AdminUserEmail)
	return nil
}
