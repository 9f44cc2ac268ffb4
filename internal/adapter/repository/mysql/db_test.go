package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loan-origination/internal/domain/applicant"
	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
)

// openTestDB returns an in-memory sqlite DB with the domain schema. One
// connection keeps every statement on the same in-memory database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&applicant.Applicant{}, &loan.Loan{}, &transition.Transition{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
