package service

import (
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	studentModel "schoolpay_backend/internals/features/academics/students/model"
	"schoolpay_backend/internals/features/finance/payments/gateway"
	"schoolpay_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Idempotent payment recorder

   The ledger's unique constraint on payment_reference is
   the idempotency guard: the insert runs ON CONFLICT DO
   NOTHING and zero rows affected IS the "already processed"
   signal. There is no check-then-insert window, and the
   surrounding transaction stays usable — a raw unique
   violation would abort it on Postgres.
========================================================= */

type RecordOutcome int

const (
	// OutcomeInserted: a new ledger row was written.
	OutcomeInserted RecordOutcome = iota
	// OutcomeDuplicate: a row with this reference already existed; the
	// delivery is acknowledged without a second insert.
	OutcomeDuplicate
	// OutcomeDonation: acknowledged but deliberately not persisted as a fee
	// payment.
	OutcomeDonation
)

// RecordGatewayPayment converts a normalized success event into a ledger row.
// Amounts arrive in minor units and are stored as major units (minor / 100).
// On OutcomeDuplicate the previously recorded row is returned.
func RecordGatewayPayment(db *gorm.DB, ev *gateway.Event, prefix string) (RecordOutcome, *model.Payment, error) {
	if ev.Donation {
		return OutcomeDonation, nil, nil
	}

	reference := prefix + ev.Reference
	amount := decimal.NewFromInt(ev.AmountMinor).Shift(-2)

	paidAt := ev.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}

	payment := &model.Payment{
		PaymentReference:      reference,
		PaymentStudentDisplay: ev.StudentIDDisplay,
		PaymentAmount:         amount,
		PaymentCurrency:       ev.Currency,
		PaymentMethod:         ev.Provider,
		PaymentStatus:         model.PaymentStatusSuccess,
		PaymentPaidAt:         paidAt,
		PaymentMeta: datatypes.JSONMap{
			"event_type": ev.Type,
			"reference":  ev.Reference,
		},
	}
	if ev.PayerEmail != "" {
		payment.PaymentPayerEmail = &ev.PayerEmail
	}
	if ev.Channel != "" {
		payment.PaymentChannel = &ev.Channel
	}

	// Attribution to a known student is best effort: the display ID is
	// always stored, the FK only when the student exists.
	var student studentModel.Student
	if err := db.First(&student, "student_id_display = ?", ev.StudentIDDisplay).Error; err == nil {
		payment.PaymentStudentID = &student.StudentID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil, err
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "payment_reference"}},
		DoNothing: true,
	}).Create(payment)
	if res.Error != nil {
		return 0, nil, res.Error
	}
	if res.RowsAffected == 0 {
		existing := &model.Payment{}
		if err := db.First(existing, "payment_reference = ?", reference).Error; err != nil {
			return 0, nil, err
		}
		return OutcomeDuplicate, existing, nil
	}

	return OutcomeInserted, payment, nil
}

// RecordPlatformFee writes the platform-fee split for a recorded payment and
// folds the payment into the monthly revenue rollup (upsert keyed on
// month+currency+gateway). Stripe-path only.
func RecordPlatformFee(db *gorm.DB, payment *model.Payment, ev *gateway.Event) error {
	fee := decimal.NewFromInt(ev.FeeMinor).Shift(-2)

	if ev.FeeMinor > 0 {
		split := &model.PlatformFee{
			PlatformFeePaymentID: payment.PaymentID,
			PlatformFeeGateway:   ev.Provider,
			PlatformFeeAmount:    fee,
			PlatformFeeCurrency:  payment.PaymentCurrency,
		}
		if err := db.Create(split).Error; err != nil {
			return err
		}
	}

	rollup := &model.RevenueRollup{
		RevenueRollupMonth:        payment.PaymentPaidAt.UTC().Format("2006-01"),
		RevenueRollupCurrency:     payment.PaymentCurrency,
		RevenueRollupGateway:      ev.Provider,
		RevenueRollupGrossTotal:   payment.PaymentAmount,
		RevenueRollupFeeTotal:     fee,
		RevenueRollupPaymentCount: 1,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "revenue_rollup_month"},
			{Name: "revenue_rollup_currency"},
			{Name: "revenue_rollup_gateway"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"revenue_rollup_gross_total":   gorm.Expr("revenue_rollup_gross_total + ?", payment.PaymentAmount),
			"revenue_rollup_fee_total":     gorm.Expr("revenue_rollup_fee_total + ?", fee),
			"revenue_rollup_payment_count": gorm.Expr("revenue_rollup_payment_count + 1"),
		}),
	}).Create(rollup).Error
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres surfaces SQLSTATE 23505 via pgconn; the string fallback covers
// other drivers (sqlite in tests reports "UNIQUE constraint failed").
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
