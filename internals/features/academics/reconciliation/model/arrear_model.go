package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ArrearStatusOutstanding = "outstanding"
	ArrearStatusCleared     = "cleared"
)

// ArrearRecord is computed, never user-entered. The end-of-year job deletes
// and reinserts the whole batch for a year pair, so rows carry no soft-delete
// column — a recompute replaces them outright.
type ArrearRecord struct {
	ArrearID uuid.UUID `gorm:"column:arrear_id;type:uuid;primaryKey" json:"arrear_id"`

	ArrearStudentID      uuid.UUID `gorm:"column:arrear_student_id;type:uuid;not null;index" json:"arrear_student_id"`
	ArrearStudentDisplay string    `gorm:"column:arrear_student_display;type:varchar(32);not null" json:"arrear_student_display"`

	// Grade the student was in when the balance was computed.
	ArrearGradeLevel string `gorm:"column:arrear_grade_level;type:varchar(16);not null" json:"arrear_grade_level"`

	ArrearAcademicYearFrom string `gorm:"column:arrear_academic_year_from;type:varchar(9);not null;index:idx_arrears_year_pair" json:"arrear_academic_year_from"`
	ArrearAcademicYearTo   string `gorm:"column:arrear_academic_year_to;type:varchar(9);not null;index:idx_arrears_year_pair" json:"arrear_academic_year_to"`

	ArrearAmount decimal.Decimal `gorm:"column:arrear_amount;type:numeric(12,2);not null" json:"arrear_amount"`
	ArrearStatus string          `gorm:"column:arrear_status;type:varchar(16);not null;default:'outstanding'" json:"arrear_status"`

	CreatedAt time.Time `gorm:"column:arrear_created_at;autoCreateTime" json:"arrear_created_at"`
}

func (ArrearRecord) TableName() string { return "arrear_records" }

func (a *ArrearRecord) BeforeCreate(tx *gorm.DB) error {
	if a.ArrearID == uuid.Nil {
		a.ArrearID = uuid.New()
	}
	return nil
}
