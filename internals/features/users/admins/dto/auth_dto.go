package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolpay_backend/internals/features/users/admins/model"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     AdminSummary `json:"admin"`
}

type AdminSummary struct {
	AdminUserID    uuid.UUID `json:"admin_user_id"`
	AdminUserEmail string    `json:"admin_user_email"`
	AdminUserName  string    `json:"admin_user_name"`
	AdminUserRole  string    `json:"admin_user_role"`
}

func FromAdminModel(m *model.AdminUser) AdminSummary {
	return AdminSummary{
		AdminUserID:    m.AdminUserID,
		AdminUserEmail: m.AdminUserEmail,
		AdminUserName:  m.AdminUserName,
		AdminUserRole:  m.AdminUserRole,
	}
}
