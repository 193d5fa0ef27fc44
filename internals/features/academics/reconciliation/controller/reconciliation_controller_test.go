package controller

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	feeModel "schoolpay_backend/internals/features/academics/fees/model"
	"schoolpay_backend/internals/features/academics/reconciliation/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
)

func setupReconApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(
		&studentModel.Student{},
		&feeModel.FeeItem{},
		&paymentModel.Payment{},
		&model.ArrearRecord{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	app := fiber.New()
	NewReconciliationController(db).RegisterRoutes(app.Group("/"))
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRunEndOfYearEndpointRejectsMalformedYear(t *testing.T) {
	app, _ := setupReconApp(t)

	resp := doJSON(t, app, http.MethodPost, "/reconciliation/run",
		`{"previous_academic_year": "2024/2025"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/reconciliation/run",
		`{"previous_academic_year": "2024-2027"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/reconciliation/run", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRunEndOfYearEndpoint(t *testing.T) {
	app, db := setupReconApp(t)

	require.NoError(t, db.Create(&feeModel.FeeItem{
		FeeItemGradeLevel:   "Basic 4",
		FeeItemTerm:         feeModel.TermFirst,
		FeeItemAcademicYear: "2024-2025",
		FeeItemAmount:       decimal.RequireFromString("600.00"),
	}).Error)
	require.NoError(t, db.Create(&studentModel.Student{
		StudentIDDisplay:  "224STU1234",
		StudentFirstName:  "Ama",
		StudentLastName:   "Mensah",
		StudentGradeLevel: "Basic 4",
		StudentStatus:     studentModel.StudentStatusActive,
	}).Error)
	require.NoError(t, db.Create(&paymentModel.Payment{
		PaymentReference:      "PS-ref-1",
		PaymentStudentDisplay: "224STU1234",
		PaymentAmount:         decimal.RequireFromString("450.00"),
		PaymentCurrency:       "GHS",
		PaymentMethod:         paymentModel.PaymentMethodPaystack,
		PaymentStatus:         paymentModel.PaymentStatusSuccess,
		PaymentPaidAt:         time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}).Error)

	resp := doJSON(t, app, http.MethodPost, "/reconciliation/run",
		`{"previous_academic_year": "2024-2025"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&model.ArrearRecord{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestClearArrear(t *testing.T) {
	app, db := setupReconApp(t)

	student := &studentModel.Student{
		StudentIDDisplay:  "224STU0007",
		StudentFirstName:  "Kofi",
		StudentLastName:   "Owusu",
		StudentGradeLevel: "Basic 4",
		StudentStatus:     studentModel.StudentStatusActive,
	}
	require.NoError(t, db.Create(student).Error)

	arrear := &model.ArrearRecord{
		ArrearStudentID:        student.StudentID,
		ArrearStudentDisplay:   student.StudentIDDisplay,
		ArrearGradeLevel:       "Basic 4",
		ArrearAcademicYearFrom: "2024-2025",
		ArrearAcademicYearTo:   "2025-2026",
		ArrearAmount:           decimal.RequireFromString("150.00"),
		ArrearStatus:           model.ArrearStatusOutstanding,
	}
	require.NoError(t, db.Create(arrear).Error)

	path := fmt.Sprintf("/reconciliation/arrears/%s/clear", arrear.ArrearID)

	resp := doJSON(t, app, http.MethodPatch, path, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var reloaded model.ArrearRecord
	require.NoError(t, db.First(&reloaded, "arrear_id = ?", arrear.ArrearID).Error)
	assert.Equal(t, model.ArrearStatusCleared, reloaded.ArrearStatus)

	// Already cleared: one-way transition, second call finds nothing to do.
	resp = doJSON(t, app, http.MethodPatch, path, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClearArrearInvalidID(t *testing.T) {
	app, _ := setupReconApp(t)

	resp := doJSON(t, app, http.MethodPatch, "/reconciliation/arrears/not-a-uuid/clear", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
