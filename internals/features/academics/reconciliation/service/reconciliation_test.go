package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	feeModel "schoolpay_backend/internals/features/academics/fees/model"
	arrearModel "schoolpay_backend/internals/features/academics/reconciliation/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

func setupReconDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(
		&studentModel.Student{},
		&feeModel.FeeItem{},
		&paymentModel.Payment{},
		&arrearModel.ArrearRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, display, grade string) *studentModel.Student {
	t.Helper()
	s := &studentModel.Student{
		StudentIDDisplay:  display,
		StudentFirstName:  "Test",
		StudentLastName:   "Student",
		StudentGradeLevel: grade,
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func seedFee(t *testing.T, db *gorm.DB, grade, term, year, amount string) {
	t.Helper()
	require.NoError(t, db.Create(&feeModel.FeeItem{
		FeeItemGradeLevel:   grade,
		FeeItemTerm:         term,
		FeeItemAcademicYear: year,
		FeeItemLabel:        "Tuition " + term,
		FeeItemAmount:       decimal.RequireFromString(amount),
	}).Error)
}

func seedPayment(t *testing.T, db *gorm.DB, display, amount string, paidAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&paymentModel.Payment{
		PaymentReference:      "PS-" + display + "-" + paidAt.Format("20060102150405"),
		PaymentStudentDisplay: display,
		PaymentAmount:         decimal.RequireFromString(amount),
		PaymentCurrency:       "GHS",
		PaymentMethod:         paymentModel.PaymentMethodPaystack,
		PaymentStatus:         paymentModel.PaymentStatusSuccess,
		PaymentPaidAt:         paidAt,
	}).Error)
}

func TestRunEndOfYearArrearsAndPromotion(t *testing.T) {
	db := setupReconDB(t)

	// Basic 4 owes 600.00 over three terms in 2024-2025.
	seedFee(t, db, "Basic 4", feeModel.TermFirst, "2024-2025", "200.00")
	seedFee(t, db, "Basic 4", feeModel.TermSecond, "2024-2025", "200.00")
	seedFee(t, db, "Basic 4", feeModel.TermThird, "2024-2025", "200.00")

	s := seedStudent(t, db, "224STU1234", "Basic 4")
	seedPayment(t, db, "224STU1234", "450.00", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ArrearsCreated)
	assert.Equal(t, 1, res.StudentsPromoted)

	var arrears []arrearModel.ArrearRecord
	require.NoError(t, db.Find(&arrears).Error)
	require.Len(t, arrears, 1)

	a := arrears[0]
	assert.Equal(t, s.StudentID, a.ArrearStudentID)
	assert.Equal(t, "224STU1234", a.ArrearStudentDisplay)
	assert.Equal(t, "Basic 4", a.ArrearGradeLevel)
	assert.Equal(t, "2024-2025", a.ArrearAcademicYearFrom)
	assert.Equal(t, "2025-2026", a.ArrearAcademicYearTo)
	assert.True(t, a.ArrearAmount.Equal(decimal.RequireFromString("150.00")),
		"arrear amount = %s", a.ArrearAmount)
	assert.Equal(t, arrearModel.ArrearStatusOutstanding, a.ArrearStatus)

	var reloaded studentModel.Student
	require.NoError(t, db.First(&reloaded, "student_id = ?", s.StudentID).Error)
	assert.Equal(t, "Basic 5", reloaded.StudentGradeLevel)
}

func TestRunEndOfYearRerunReplacesBatch(t *testing.T) {
	db := setupReconDB(t)

	// Fees for both rungs: the first run promotes the student to Basic 5, so
	// the second run computes the arrear against the new grade.
	seedFee(t, db, "Basic 4", feeModel.TermFirst, "2024-2025", "600.00")
	seedFee(t, db, "Basic 5", feeModel.TermFirst, "2024-2025", "600.00")
	seedStudent(t, db, "224STU1234", "Basic 4")
	seedPayment(t, db, "224STU1234", "450.00", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC))

	_, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	_, err = RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)

	// Re-running replaces the year-pair batch instead of stacking duplicates.
	var count int64
	require.NoError(t, db.Model(&arrearModel.ArrearRecord{}).
		Where("arrear_academic_year_from = ?", "2024-2025").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRunEndOfYearFullyPaidStudentHasNoArrear(t *testing.T) {
	db := setupReconDB(t)

	seedFee(t, db, "Basic 4", feeModel.TermFirst, "2024-2025", "600.00")
	seedStudent(t, db, "224STU0001", "Basic 4")
	seedPayment(t, db, "224STU0001", "600.00", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ArrearsCreated)
	assert.Equal(t, 1, res.StudentsPromoted)
}

func TestRunEndOfYearPaymentOutsideWindowIgnored(t *testing.T) {
	db := setupReconDB(t)

	seedFee(t, db, "Basic 4", feeModel.TermFirst, "2024-2025", "600.00")
	seedStudent(t, db, "224STU0002", "Basic 4")
	// Paid before Aug 1 2024: belongs to the prior year.
	seedPayment(t, db, "224STU0002", "600.00", time.Date(2024, 7, 31, 12, 0, 0, 0, time.UTC))

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	require.Equal(t, 1, res.ArrearsCreated)

	var a arrearModel.ArrearRecord
	require.NoError(t, db.First(&a).Error)
	assert.True(t, a.ArrearAmount.Equal(decimal.RequireFromString("600.00")))
}

func TestRunEndOfYearFeeOverridePrecedence(t *testing.T) {
	db := setupReconDB(t)

	seedFee(t, db, "Basic 4", feeModel.TermFirst, "2024-2025", "600.00")

	override := decimal.RequireFromString("300.00")
	s := seedStudent(t, db, "224STU0003", "Basic 4")
	require.NoError(t, db.Model(s).Update("student_fee_override", override).Error)

	seedPayment(t, db, "224STU0003", "250.00", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	require.Equal(t, 1, res.ArrearsCreated)

	// Override replaces the grade total: 300.00 - 250.00, not 600.00 - 250.00.
	var a arrearModel.ArrearRecord
	require.NoError(t, db.First(&a).Error)
	assert.True(t, a.ArrearAmount.Equal(decimal.RequireFromString("50.00")),
		"arrear amount = %s", a.ArrearAmount)

	// Promotion clears the override for the new year.
	var reloaded studentModel.Student
	require.NoError(t, db.First(&reloaded, "student_id = ?", s.StudentID).Error)
	assert.Nil(t, reloaded.StudentFeeOverride)
	assert.Equal(t, "Basic 5", reloaded.StudentGradeLevel)
}

func TestRunEndOfYearFinalGradeNotPromoted(t *testing.T) {
	db := setupReconDB(t)

	seedFee(t, db, "Basic 9", feeModel.TermFirst, "2024-2025", "600.00")

	override := decimal.RequireFromString("500.00")
	s := seedStudent(t, db, "224STU0004", "Basic 9")
	require.NoError(t, db.Model(s).Update("student_fee_override", override).Error)

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	// Still arrears-eligible, just not promotable.
	assert.Equal(t, 1, res.ArrearsCreated)
	assert.Equal(t, 0, res.StudentsPromoted)

	var reloaded studentModel.Student
	require.NoError(t, db.First(&reloaded, "student_id = ?", s.StudentID).Error)
	assert.Equal(t, "Basic 9", reloaded.StudentGradeLevel)
	assert.Equal(t, studentModel.StudentStatusGraduated, reloaded.StudentStatus)
	assert.Nil(t, reloaded.StudentFeeOverride)
}

func TestRunEndOfYearNoDoublePromotion(t *testing.T) {
	db := setupReconDB(t)

	seedStudent(t, db, "224STU0005", "KG 1")
	seedStudent(t, db, "224STU0006", "Basic 8")

	res, err := RunEndOfYear(db, "2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 2, res.StudentsPromoted)

	// Each student moves exactly one rung even though Basic 8 -> Basic 9
	// happens before KG 1 -> KG 2 in the ladder walk.
	var kg studentModel.Student
	require.NoError(t, db.First(&kg, "student_id_display = ?", "224STU0005").Error)
	assert.Equal(t, "KG 2", kg.StudentGradeLevel)

	var b8 studentModel.Student
	require.NoError(t, db.First(&b8, "student_id_display = ?", "224STU0006").Error)
	assert.Equal(t, "Basic 9", b8.StudentGradeLevel)
	// Entering the final year, not finishing it: still active.
	assert.Equal(t, studentModel.StudentStatusActive, b8.StudentStatus)
}

func TestRunEndOfYearRejectsBadYear(t *testing.T) {
	db := setupReconDB(t)

	_, err := RunEndOfYear(db, "2024/2025")
	assert.Error(t, err)

	_, err = RunEndOfYear(db, "2024-2027")
	assert.Error(t, err)
}
