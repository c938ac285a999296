package service

import (
	"context"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movements implements the money-movement operations: account-to-account
// transfers and deposits. Every operation is one database transaction; either
// both the balance mutation and the ledger append land, or neither does.
type Movements struct {
	DB *gorm.DB
}

func NewMovements(db *gorm.DB) *Movements {
	return &Movements{DB: db}
}

// TransferInput describes a transfer between two accounts of one user.
type TransferInput struct {
	FromAccountID uint
	ToAccountID   uint
	AmountCents   int64
	Description   string
	Date          time.Time
}

// TransferResult carries both updated account states and the two ledger legs.
type TransferResult struct {
	From     *models.Account
	To       *models.Account
	OutEntry *models.Transaction
	InEntry  *models.Transaction
}

// Transfer moves funds between two accounts owned by userID. Validation and
// ownership checks run before any mutation; the two balance mutations and two
// ledger legs commit atomically or roll back together.
func (s *Movements) Transfer(ctx context.Context, userID uint, in TransferInput) (*TransferResult, error) {
	if in.AmountCents <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if in.FromAccountID == in.ToAccountID {
		return nil, apperr.InvalidArgument("cannot transfer to the same account")
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var result TransferResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// lock both rows in ascending id order so two opposite transfers
		// cannot deadlock
		firstID, secondID := in.FromAccountID, in.ToAccountID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		locked := make(map[uint]*models.Account, 2)
		for _, id := range []uint{firstID, secondID} {
			acc, err := lockAccount(tx, userID, id)
			if err != nil {
				return err
			}
			locked[id] = acc
		}
		src, dst := locked[in.FromAccountID], locked[in.ToAccountID]

		if src.Currency != dst.Currency {
			return apperr.InvalidArgument("currency mismatch: %s vs %s", src.Currency, dst.Currency)
		}
		if src.BalanceCents < in.AmountCents {
			return apperr.InsufficientFunds("insufficient funds: balance %d, requested %d",
				src.BalanceCents, in.AmountCents)
		}

		group := uuid.NewString()
		out := &models.Transaction{
			UserID:        userID,
			AccountID:     src.ID,
			Type:          models.MovementTransferOut,
			AmountCents:   in.AmountCents,
			Currency:      src.Currency,
			Description:   in.Description,
			Date:          in.Date,
			TransferGroup: group,
		}
		inEntry := &models.Transaction{
			UserID:        userID,
			AccountID:     dst.ID,
			Type:          models.MovementTransferIn,
			AmountCents:   in.AmountCents,
			Currency:      dst.Currency,
			Description:   in.Description,
			Date:          in.Date,
			TransferGroup: group,
		}

		if err := applyBalanceDelta(tx, src.ID, -in.AmountCents); err != nil {
			return err
		}
		if err := appendEntry(tx, out); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, dst.ID, in.AmountCents); err != nil {
			return err
		}
		if err := appendEntry(tx, inEntry); err != nil {
			return err
		}

		src.BalanceCents -= in.AmountCents
		dst.BalanceCents += in.AmountCents
		result = TransferResult{From: src, To: dst, OutEntry: out, InEntry: inEntry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Deposit credits an account and records an INCOME ledger entry atomically.
func (s *Movements) Deposit(ctx context.Context, userID, accountID uint, amountCents int64, description string, date time.Time) (*models.Account, *models.Transaction, error) {
	if amountCents <= 0 {
		return nil, nil, apperr.Validation("amount must be positive")
	}
	if date.IsZero() {
		date = time.Now()
	}

	var (
		acc   *models.Account
		entry *models.Transaction
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		acc, err = lockAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		entry = &models.Transaction{
			UserID:      userID,
			AccountID:   acc.ID,
			Type:        models.MovementIncome,
			AmountCents: amountCents,
			Currency:    acc.Currency,
			Description: description,
			Date:        date,
		}

		if err := applyBalanceDelta(tx, acc.ID, amountCents); err != nil {
			return err
		}
		if err := appendEntry(tx, entry); err != nil {
			return err
		}

		acc.BalanceCents += amountCents
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return acc, entry, nil
}
