package models

import (
	"time"

	"gorm.io/gorm"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementIncome      MovementType = "income"
	MovementExpense     MovementType = "expense"
	MovementTransferIn  MovementType = "transfer_in"
	MovementTransferOut MovementType = "transfer_out"
)

// Valid reports whether t is one of the known movement types.
func (t MovementType) Valid() bool {
	switch t {
	case MovementIncome, MovementExpense, MovementTransferIn, MovementTransferOut:
		return true
	}
	return false
}

// IsTransfer reports whether t is one leg of an account-to-account transfer.
func (t MovementType) IsTransfer() bool {
	return t == MovementTransferIn || t == MovementTransferOut
}

// SignedCents returns the effect of an entry of this type on its account
// balance: positive for money coming in, negative for money going out.
func (t MovementType) SignedCents(amountCents int64) int64 {
	switch t {
	case MovementIncome, MovementTransferIn:
		return amountCents
	case MovementExpense, MovementTransferOut:
		return -amountCents
	}
	return 0
}

// Transaction is a single immutable ledger entry. AmountCents is always a
// positive magnitude; the movement type carries the sign. The two legs of a
// transfer share one TransferGroup.
type Transaction struct {
	ID            uint         `gorm:"primaryKey"`
	UserID        uint         `gorm:"index;not null"`
	AccountID     uint         `gorm:"index;not null"`
	CategoryID    *uint        `gorm:"index"`
	Type          MovementType `gorm:"size:16;index;not null"`
	AmountCents   int64        `gorm:"not null"` // positive magnitude, minor units
	Currency      string       `gorm:"size:8;not null;default:USD"`
	Description   string       `gorm:"size:255"`
	Date          time.Time    `gorm:"index;not null"`
	TransferGroup string       `gorm:"size:64;index"` // links the two legs of a transfer

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Account  Account   `gorm:"constraint:OnDelete:CASCADE"`
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	User     User      `gorm:"constraint:OnDelete:CASCADE"`
}
