package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appDomain "coopvest-backend/internal/domain/application"
	featureDomain "coopvest-backend/internal/domain/feature"
	guarantorDomain "coopvest-backend/internal/domain/guarantor"
	loanDomain "coopvest-backend/internal/domain/loan"
	qrDomain "coopvest-backend/internal/domain/qrtoken"
)

// openTestDB creates an in-memory sqlite DB and migrates the domain models.
// All column types here are sqlite-safe (varchar statuses, no enums), so the
// domain structs migrate as-is. The sqlite driver drops FOR UPDATE clauses,
// which keeps the locked getters runnable in tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&loanDomain.Loan{},
		&loanDomain.LoanPayment{},
		&loanDomain.Transaction{},
		&guarantorDomain.Guarantor{},
		&guarantorDomain.Invitation{},
		&qrDomain.QRToken{},
		&appDomain.LoanApplication{},
		&featureDomain.Feature{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}
