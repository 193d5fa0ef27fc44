package dto

import (
	"errors"

	"github.com/shopspring/decimal"

	"schoolpay_backend/internals/features/academics/students/model"
)

/* =========================================================
   CREATE
========================================================= */

type CreateStudentRequest struct {
	StudentIDDisplay  string `json:"student_id_display" validate:"required"`
	StudentFirstName  string `json:"student_first_name" validate:"required"`
	StudentLastName   string `json:"student_last_name" validate:"required"`
	StudentGradeLevel string `json:"student_grade_level" validate:"required"`

	StudentGuardianEmail *string `json:"student_guardian_email" validate:"omitempty,email"`
	StudentGuardianPhone *string `json:"student_guardian_phone"`
}

func (r *CreateStudentRequest) Validate() error {
	if !model.IsValidGrade(r.StudentGradeLevel) {
		return errors.New("invalid student_grade_level")
	}
	return nil
}

func (r *CreateStudentRequest) ToModel() *model.Student {
	return &model.Student{
		StudentIDDisplay:     r.StudentIDDisplay,
		StudentFirstName:     r.StudentFirstName,
		StudentLastName:      r.StudentLastName,
		StudentGradeLevel:    r.StudentGradeLevel,
		StudentGuardianEmail: r.StudentGuardianEmail,
		StudentGuardianPhone: r.StudentGuardianPhone,
		StudentStatus:        model.StudentStatusActive,
	}
}

/* =========================================================
   UPDATE
========================================================= */

type UpdateStudentRequest struct {
	StudentFirstName   *string          `json:"student_first_name"`
	StudentLastName    *string          `json:"student_last_name"`
	StudentGradeLevel  *string          `json:"student_grade_level"`
	StudentFeeOverride *decimal.Decimal `json:"student_fee_override"`
	StudentStatus      *string          `json:"student_status"`
}

func (r *UpdateStudentRequest) Apply(m *model.Student) error {
	if r.StudentFirstName != nil {
		m.StudentFirstName = *r.StudentFirstName
	}
	if r.StudentLastName != nil {
		m.StudentLastName = *r.StudentLastName
	}
	if r.StudentGradeLevel != nil {
		if !model.IsValidGrade(*r.StudentGradeLevel) {
			return errors.New("invalid student_grade_level")
		}
		m.StudentGradeLevel = *r.StudentGradeLevel
	}
	if r.StudentFeeOverride != nil {
		if r.StudentFeeOverride.Sign() < 0 {
			return errors.New("student_fee_override must not be negative")
		}
		m.StudentFeeOverride = r.StudentFeeOverride
	}
	if r.StudentStatus != nil {
		switch *r.StudentStatus {
		case model.StudentStatusActive, model.StudentStatusInactive, model.StudentStatusGraduated:
			m.StudentStatus = *r.StudentStatus
		default:
			return errors.New("invalid student_status")
		}
	}
	return nil
}
