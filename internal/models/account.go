package models

import (
	"time"

	"gorm.io/gorm"
)

// AccountType classifies an account.
type AccountType string

const (
	AccountTypeWallet     AccountType = "wallet"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCredit     AccountType = "credit"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeWallet, AccountTypeSavings, AccountTypeInvestment, AccountTypeCredit:
		return true
	}
	return false
}

// Account represents a user's money container. BalanceCents is mutated only
// through the service layer, paired with a ledger entry in one transaction.
type Account struct {
	ID           uint        `gorm:"primaryKey"`
	UserID       uint        `gorm:"index;not null"`
	Name         string      `gorm:"size:64;not null"`
	Type         AccountType `gorm:"size:16;index;not null"`
	Currency     string      `gorm:"size:8;not null;default:USD"`
	BalanceCents int64       `gorm:"not null;default:0"` // minor units, avoids float
	TargetCents  *int64      // savings goal amount
	TargetDate   *time.Time  // savings goal deadline
	IsDefault    bool        `gorm:"not null;default:false"` // default accounts cannot be deleted
	Color        string      `gorm:"size:16"`
	Icon         string      `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
