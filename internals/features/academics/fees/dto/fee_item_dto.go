package dto

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"

	"schoolpay_backend/internals/features/academics/fees/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
)

var academicYearRe = regexp.MustCompile(`^\d{4}-\d{4}$`)

/* =========================================================
   CREATE
========================================================= */

type CreateFeeItemRequest struct {
	FeeItemGradeLevel   string          `json:"fee_item_grade_level" validate:"required"`
	FeeItemTerm         string          `json:"fee_item_term" validate:"required"`
	FeeItemAcademicYear string          `json:"fee_item_academic_year" validate:"required"`
	FeeItemLabel        string          `json:"fee_item_label"`
	FeeItemAmount       decimal.Decimal `json:"fee_item_amount"`
}

func (r *CreateFeeItemRequest) Validate() error {
	if !studentModel.IsValidGrade(r.FeeItemGradeLevel) {
		return errors.New("invalid fee_item_grade_level")
	}
	if !model.IsValidTerm(r.FeeItemTerm) {
		return errors.New("invalid fee_item_term")
	}
	if !academicYearRe.MatchString(r.FeeItemAcademicYear) {
		return errors.New("invalid fee_item_academic_year (want \"YYYY-YYYY\")")
	}
	if r.FeeItemAmount.Sign() <= 0 {
		return errors.New("fee_item_amount must be positive")
	}
	return nil
}

func (r *CreateFeeItemRequest) ToModel() *model.FeeItem {
	return &model.FeeItem{
		FeeItemGradeLevel:   r.FeeItemGradeLevel,
		FeeItemTerm:         r.FeeItemTerm,
		FeeItemAcademicYear: r.FeeItemAcademicYear,
		FeeItemLabel:        r.FeeItemLabel,
		FeeItemAmount:       r.FeeItemAmount,
	}
}

/* =========================================================
   UPDATE
========================================================= */

type UpdateFeeItemRequest struct {
	FeeItemLabel  *string          `json:"fee_item_label"`
	FeeItemAmount *decimal.Decimal `json:"fee_item_amount"`
}

func (r *UpdateFeeItemRequest) Apply(m *model.FeeItem) error {
	if r.FeeItemLabel != nil {
		m.FeeItemLabel = *r.FeeItemLabel
	}
	if r.FeeItemAmount != nil {
		if r.FeeItemAmount.Sign() <= 0 {
			return errors.New("fee_item_amount must be positive")
		}
		m.FeeItemAmount = *r.FeeItemAmount
	}
	return nil
}
