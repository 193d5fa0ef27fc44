package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusGraduated = "graduated"
)

/* ===================== Model ===================== */

type Student struct {
	StudentID uuid.UUID `gorm:"column:student_id;type:uuid;primaryKey" json:"student_id"`

	// Public identifier carried in payment metadata, e.g. "224STU1234".
	StudentIDDisplay string `gorm:"column:student_id_display;type:varchar(32);not null;uniqueIndex" json:"student_id_display"`

	StudentFirstName string `gorm:"column:student_first_name;type:varchar(64);not null" json:"student_first_name"`
	StudentLastName  string `gorm:"column:student_last_name;type:varchar(64);not null" json:"student_last_name"`

	// One of the fixed grade ladder; advanced by the end-of-year promotion.
	StudentGradeLevel string `gorm:"column:student_grade_level;type:varchar(16);not null" json:"student_grade_level"`

	// Per-student override of the total fees owed for the year. Reset to
	// NULL on promotion.
	StudentFeeOverride *decimal.Decimal `gorm:"column:student_fee_override;type:numeric(12,2)" json:"student_fee_override,omitempty"`

	StudentGuardianEmail *string `gorm:"column:student_guardian_email;type:varchar(128)" json:"student_guardian_email,omitempty"`
	StudentGuardianPhone *string `gorm:"column:student_guardian_phone;type:varchar(32)" json:"student_guardian_phone,omitempty"`

	StudentStatus string `gorm:"column:student_status;type:varchar(16);not null;default:'active'" json:"student_status"`

	CreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	UpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (Student) TableName() string { return "students" }

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	return nil
}
