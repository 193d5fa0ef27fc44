package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TermFirst  = "Term 1"
	TermSecond = "Term 2"
	TermThird  = "Term 3"
)

// FeeItem defines what a grade level owes for one term of an academic year.
// Read-only during reconciliation.
type FeeItem struct {
	FeeItemID uuid.UUID `gorm:"column:fee_item_id;type:uuid;primaryKey" json:"fee_item_id"`

	FeeItemGradeLevel   string `gorm:"column:fee_item_grade_level;type:varchar(16);not null;uniqueIndex:idx_fee_items_grade_term_year" json:"fee_item_grade_level"`
	FeeItemTerm         string `gorm:"column:fee_item_term;type:varchar(16);not null;uniqueIndex:idx_fee_items_grade_term_year" json:"fee_item_term"`
	FeeItemAcademicYear string `gorm:"column:fee_item_academic_year;type:varchar(9);not null;uniqueIndex:idx_fee_items_grade_term_year" json:"fee_item_academic_year"`

	FeeItemLabel  string          `gorm:"column:fee_item_label;type:varchar(64)" json:"fee_item_label"`
	FeeItemAmount decimal.Decimal `gorm:"column:fee_item_amount;type:numeric(12,2);not null" json:"fee_item_amount"`

	CreatedAt time.Time      `gorm:"column:fee_item_created_at;autoCreateTime" json:"fee_item_created_at"`
	UpdatedAt time.Time      `gorm:"column:fee_item_updated_at;autoUpdateTime" json:"fee_item_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:fee_item_deleted_at;index" json:"fee_item_deleted_at,omitempty"`
}

func (FeeItem) TableName() string { return "fee_items" }

func (f *FeeItem) BeforeCreate(tx *gorm.DB) error {
	if f.FeeItemID == uuid.Nil {
		f.FeeItemID = uuid.New()
	}
	return nil
}

func IsValidTerm(t string) bool {
	switch t {
	case TermFirst, TermSecond, TermThird:
		return true
	}
	return false
}
