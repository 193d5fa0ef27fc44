package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"schoolpay_backend/internals/configs"
	feeModel "schoolpay_backend/internals/features/academics/fees/model"
	arrearModel "schoolpay_backend/internals/features/academics/reconciliation/model"
	studentModel "schoolpay_backend/internals/features/academics/students/model"
	paymentModel "schoolpay_backend/internals/features/finance/payments/model"
	adminModel "schoolpay_backend/internals/features/users/admins/model"
)

func Connect(cfg *configs.Config) *gorm.DB {
	log.Println("🔌 Connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // plays nice with PgBouncer transaction pooling
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	log.Println("✅ DB connected.")
	return db
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate creates/updates every table the app touches. The unique index on
// payments.payment_reference is the idempotency guarantee for webhook
// redelivery, so this must run before the server starts taking traffic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&adminModel.AdminUser{},
		&studentModel.Student{},
		&feeModel.FeeItem{},
		&arrearModel.ArrearRecord{},
		&paymentModel.Payment{},
		&paymentModel.PlatformFee{},
		&paymentModel.RevenueRollup{},
		&paymentModel.PaymentGatewayEvent{},
		&paymentModel.GatewaySetting{},
	)
}
