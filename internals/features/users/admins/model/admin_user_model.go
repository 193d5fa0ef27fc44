package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AdminRoleAdmin = "admin"
)

type AdminUser struct {
	AdminUserID uuid.UUID `gorm:"column:admin_user_id;type:uuid;primaryKey" json:"admin_user_id"`

	AdminUserEmail        string `gorm:"column:admin_user_email;type:varchar(128);not null;uniqueIndex" json:"admin_user_email"`
	AdminUserPasswordHash string `gorm:"column:admin_user_password_hash;type:varchar(128);not null" json:"-"`

	AdminUserName string `gorm:"column:admin_user_name;type:varchar(64);not null" json:"admin_user_name"`
	AdminUserRole string `gorm:"column:admin_user_role;type:varchar(16);not null;default:'admin'" json:"admin_user_role"`

	CreatedAt time.Time      `gorm:"column:admin_user_created_at;autoCreateTime" json:"admin_user_created_at"`
	UpdatedAt time.Time      `gorm:"column:admin_user_updated_at;autoUpdateTime" json:"admin_user_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:admin_user_deleted_at;index" json:"admin_user_deleted_at,omitempty"`
}

func (AdminUser) TableName() string { return "admin_users" }

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.AdminUserID == uuid.Nil {
		u.AdminUserID = uuid.New()
	}
	return nil
}
