package service

import (
	"testing"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// a single connection keeps the in-memory database alive and private
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		Currency:     "USD",
		FiscalDay:    1,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedAccount(t *testing.T, db *gorm.DB, userID uint, name, currency string, balanceCents int64) *models.Account {
	t.Helper()
	acc := &models.Account{
		UserID:       userID,
		Name:         name,
		Type:         models.AccountTypeWallet,
		Currency:     currency,
		BalanceCents: balanceCents,
	}
	if err := db.Create(acc).Error; err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return acc
}

func seedCategory(t *testing.T, db *gorm.DB, userID uint, name string, typ models.CategoryType, fixed bool) *models.Category {
	t.Helper()
	cat := &models.Category{
		UserID:  userID,
		Name:    name,
		Type:    typ,
		IsFixed: fixed,
	}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

// balanceOf re-reads the stored balance.
func balanceOf(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var acc models.Account
	if err := db.First(&acc, accountID).Error; err != nil {
		t.Fatalf("load account %d: %v", accountID, err)
	}
	return acc.BalanceCents
}

// sumSignedEffects sums the signed effect of all active ledger entries for
// one account. The invariant under test: it always equals the stored balance.
func sumSignedEffects(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var entries []models.Transaction
	if err := db.Where("account_id = ?", accountID).Find(&entries).Error; err != nil {
		t.Fatalf("load entries: %v", err)
	}
	var sum int64
	for _, e := range entries {
		sum += e.Type.SignedCents(e.AmountCents)
	}
	return sum
}

func countEntries(t *testing.T, db *gorm.DB, accountID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).Where("account_id = ?", accountID).Count(&n).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	return n
}

// checkInvariant verifies balance == opening balance + sum of signed effects.
func checkInvariant(t *testing.T, db *gorm.DB, accountID uint, openingCents int64) {
	t.Helper()
	balance := balanceOf(t, db, accountID)
	sum := sumSignedEffects(t, db, accountID)
	if balance != openingCents+sum {
		t.Errorf("account %d: balance %d != opening %d + signed effects %d",
			accountID, balance, openingCents, sum)
	}
}
