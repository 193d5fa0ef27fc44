package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	"schoolpay_backend/internals/features/finance/payments/model"
)

func setupPaymentApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	if err := db.AutoMigrate(&studentModel.Student{}, &model.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &configs.Config{PaystackSecretKey: paystackTestKey}
	app := fiber.New()
	NewPaymentController(db, cfg).RegisterRoutes(app.Group("/"))
	return app, db
}

func TestListPaymentsGatewayFilter(t *testing.T) {
	app, db := setupPaymentApp(t)

	for ref, method := range map[string]string{
		"PS-a": model.PaymentMethodPaystack,
		"ST-b": model.PaymentMethodStripe,
		"MN-c": model.PaymentMethodManual,
	} {
		require.NoError(t, db.Create(&model.Payment{
			PaymentReference:      ref,
			PaymentStudentDisplay: "224STU1234",
			PaymentAmount:         decimal.RequireFromString("50.00"),
			PaymentCurrency:       "GHS",
			PaymentMethod:         method,
			PaymentStatus:         model.PaymentStatusSuccess,
			PaymentPaidAt:         time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		}).Error)
	}

	for _, g := range []string{"paystack", "stripe", "manual"} {
		req := httptest.NewRequest(http.MethodGet, "/payments/?gateway="+g, nil)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "gateway=%s", g)
	}
}

func TestListPaymentsRejectsUnknownGateway(t *testing.T) {
	app, _ := setupPaymentApp(t)

	req := httptest.NewRequest(http.MethodGet, "/payments/?gateway=venmo", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
