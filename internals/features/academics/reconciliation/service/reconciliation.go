package service

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	feeModel "schoolpay_backend/internals/features/academics/fees/model"
	arrearModel "schoolpay_backend/internals/features/academics/reconciliation/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

/* =========================================================
   End-of-year reconciliation

   Phase 1 (one transaction): recompute arrears for the
   ending year — delete the batch for the year pair, then
   reinsert per-student shortfalls. Re-running replaces the
   batch, it never accumulates.

   Phase 2 (own transaction): promote every non-final
   student one step up the grade ladder and clear the fee
   override. Runs only after phase 1 commits; a failure
   between the phases leaves arrears committed and grades
   untouched, which callers handle by re-running the job.
========================================================= */

type Result struct {
	ArrearsCreated   int `json:"arrears_created"`
	StudentsPromoted int `json:"students_promoted"`
}

func (r *Result) Message() string {
	return fmt.Sprintf("arrears recorded for %d students, %d students promoted", r.ArrearsCreated, r.StudentsPromoted)
}

// RunEndOfYear closes out previousYear ("YYYY-YYYY").
func RunEndOfYear(db *gorm.DB, previousYear string) (*Result, error) {
	year, err := ParseAcademicYear(previousYear)
	if err != nil {
		return nil, err
	}
	nextYear := year.Next().String()

	res := &Result{}

	if err := db.Transaction(func(tx *gorm.DB) error {
		n, err := computeArrears(tx, year, nextYear)
		if err != nil {
			return err
		}
		res.ArrearsCreated = n
		return nil
	}); err != nil {
		return nil, fmt.Errorf("arrears calculation: %w", err)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		n, err := promoteStudents(tx)
		if err != nil {
			return err
		}
		res.StudentsPromoted = n
		return nil
	}); err != nil {
		// Phase 1 already committed; report the partial state honestly.
		return res, fmt.Errorf("promotion (arrears already recorded): %w", err)
	}

	log.Printf("[INFO] reconciliation %s: %s", previousYear, res.Message())
	return res, nil
}

/* ===================== Phase 1: arrears ===================== */

func computeArrears(tx *gorm.DB, year AcademicYear, nextYear string) (int, error) {
	// Fees owed per grade for the ending year, aggregated in memory.
	var feeRows []struct {
		Grade string
		Total decimal.Decimal
	}
	if err := tx.Model(&feeModel.FeeItem{}).
		Select("fee_item_grade_level AS grade, SUM(fee_item_amount) AS total").
		Where("fee_item_academic_year = ?", year.String()).
		Group("fee_item_grade_level").
		Scan(&feeRows).Error; err != nil {
		return 0, err
	}
	owedByGrade := make(map[string]decimal.Decimal, len(feeRows))
	for _, r := range feeRows {
		owedByGrade[r.Grade] = r.Total
	}

	// Payments recorded per student inside the Aug 1–Jul 31 window.
	start, end := year.Window()
	var payRows []struct {
		Display string
		Total   decimal.Decimal
	}
	if err := tx.Model(&paymentModel.Payment{}).
		Select("payment_student_display AS display, SUM(payment_amount) AS total").
		Where("payment_paid_at >= ? AND payment_paid_at < ?", start, end).
		Group("payment_student_display").
		Scan(&payRows).Error; err != nil {
		return 0, err
	}
	paidByStudent := make(map[string]decimal.Decimal, len(payRows))
	for _, r := range payRows {
		paidByStudent[r.Display] = r.Total
	}

	var students []studentModel.Student
	if err := tx.Find(&students).Error; err != nil {
		return 0, err
	}

	// Full recompute for the year pair: delete, then reinsert.
	if err := tx.Where(
		"arrear_academic_year_from = ? AND arrear_academic_year_to = ?",
		year.String(), nextYear,
	).Delete(&arrearModel.ArrearRecord{}).Error; err != nil {
		return 0, err
	}

	arrears := make([]arrearModel.ArrearRecord, 0, len(students))
	for i := range students {
		s := &students[i]

		owed := owedByGrade[s.StudentGradeLevel]
		if s.StudentFeeOverride != nil {
			owed = *s.StudentFeeOverride
		}
		paid := paidByStudent[s.StudentIDDisplay]

		balance := owed.Sub(paid)
		if balance.Sign() <= 0 {
			continue
		}

		arrears = append(arrears, arrearModel.ArrearRecord{
			ArrearStudentID:        s.StudentID,
			ArrearStudentDisplay:   s.StudentIDDisplay,
			ArrearGradeLevel:       s.StudentGradeLevel,
			ArrearAcademicYearFrom: year.String(),
			ArrearAcademicYearTo:   nextYear,
			ArrearAmount:           balance,
			ArrearStatus:           arrearModel.ArrearStatusOutstanding,
		})
	}

	if len(arrears) > 0 {
		if err := tx.Create(&arrears).Error; err != nil {
			return 0, err
		}
	}
	return len(arrears), nil
}

/* ===================== Phase 2: promotion ===================== */

// promoteStudents advances grades set-wise, walking the ladder from the top
// so a student is never promoted twice in one run. Students already at the
// final grade keep it and are marked graduated; the fee override is cleared
// either way.
func promoteStudents(tx *gorm.DB) (int, error) {
	promoted := 0

	// Students finishing the final grade leave the ladder: marked graduated,
	// override reset, grade unchanged. Runs before the walk so a student
	// promoted into the final grade this run stays active for their last year.
	final := studentModel.GradeLadder[len(studentModel.GradeLadder)-1]
	if err := tx.Model(&studentModel.Student{}).
		Where("student_grade_level = ? AND student_status = ?", final, studentModel.StudentStatusActive).
		Updates(map[string]interface{}{
			"student_status":       studentModel.StudentStatusGraduated,
			"student_fee_override": nil,
		}).Error; err != nil {
		return promoted, err
	}

	for i := len(studentModel.GradeLadder) - 2; i >= 0; i-- {
		from := studentModel.GradeLadder[i]
		to := studentModel.GradeLadder[i+1]

		res := tx.Model(&studentModel.Student{}).
			Where("student_grade_level = ?", from).
			Updates(map[string]interface{}{
				"student_grade_level":  to,
				"student_fee_override": nil,
			})
		if res.Error != nil {
			return promoted, res.Error
		}
		promoted += int(res.RowsAffected)
	}

	return promoted, nil
}
