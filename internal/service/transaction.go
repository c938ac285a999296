package service

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Transactions implements CRUD over income/expense ledger entries. Creating
// an entry applies its signed effect to the account balance; updating or
// soft-deleting reverses the original effect in the same database
// transaction, so balance always equals the sum of active signed effects.
// Transfer legs are immutable here: they are written only by Movements and
// rejected from update/delete.
type Transactions struct {
	DB *gorm.DB
}

func NewTransactions(db *gorm.DB) *Transactions {
	return &Transactions{DB: db}
}

// EntryInput describes a new or updated income/expense entry.
type EntryInput struct {
	AccountID   uint
	CategoryID  *uint
	Type        models.MovementType
	AmountCents int64
	Description string
	Date        time.Time
}

func (s *Transactions) validateInput(tx *gorm.DB, userID uint, in EntryInput) error {
	if in.Type != models.MovementIncome && in.Type != models.MovementExpense {
		return apperr.Validation("movement type must be income or expense")
	}
	if in.AmountCents <= 0 {
		return apperr.Validation("amount must be positive")
	}
	if in.CategoryID == nil {
		return nil
	}
	var cat models.Category
	if err := tx.Where("id = ? AND user_id = ?", *in.CategoryID, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("category %d not found", *in.CategoryID)
		}
		return apperr.Internal("load category: %v", err)
	}
	if cat.Type != models.CategoryTypeBoth && string(cat.Type) != string(in.Type) {
		return apperr.Validation("category %q cannot classify %s entries", cat.Name, in.Type)
	}
	return nil
}

// Create appends one entry and applies its balance effect atomically.
func (s *Transactions) Create(ctx context.Context, userID uint, in EntryInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var entry *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateInput(tx, userID, in); err != nil {
			return err
		}
		acc, err := lockAccount(tx, userID, in.AccountID)
		if err != nil {
			return err
		}

		entry = &models.Transaction{
			UserID:      userID,
			AccountID:   acc.ID,
			CategoryID:  in.CategoryID,
			Type:        in.Type,
			AmountCents: in.AmountCents,
			Currency:    acc.Currency,
			Description: in.Description,
			Date:        in.Date,
		}
		if err := appendEntry(tx, entry); err != nil {
			return err
		}
		return applyBalanceDelta(tx, acc.ID, in.Type.SignedCents(in.AmountCents))
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Transactions) loadOwned(tx *gorm.DB, userID, id uint) (*models.Transaction, error) {
	var entry models.Transaction
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("transaction %d not found", id)
		}
		return nil, apperr.Internal("load transaction: %v", err)
	}
	return &entry, nil
}

// Update rewrites an entry: the original balance effect is reversed and the
// new one applied, all in one transaction. Moving the entry to another
// account reverses on the old account and applies on the new one.
func (s *Transactions) Update(ctx context.Context, userID, id uint, in EntryInput) (*models.Transaction, error) {
	if in.Date.IsZero() {
		in.Date = time.Now()
	}

	var updated *models.Transaction
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if entry.Type.IsTransfer() {
			return apperr.InvalidArgument("transfer legs cannot be edited")
		}
		if err := s.validateInput(tx, userID, in); err != nil {
			return err
		}

		acc, err := lockAccount(tx, userID, in.AccountID)
		if err != nil {
			return err
		}
		if in.AccountID != entry.AccountID {
			if _, err := lockAccount(tx, userID, entry.AccountID); err != nil {
				return err
			}
		}

		if err := applyBalanceDelta(tx, entry.AccountID, -entry.Type.SignedCents(entry.AmountCents)); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, in.AccountID, in.Type.SignedCents(in.AmountCents)); err != nil {
			return err
		}

		entry.AccountID = in.AccountID
		entry.CategoryID = in.CategoryID
		entry.Type = in.Type
		entry.AmountCents = in.AmountCents
		entry.Currency = acc.Currency
		entry.Description = in.Description
		entry.Date = in.Date
		if err := tx.Save(entry).Error; err != nil {
			return apperr.Internal("save transaction: %v", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete marks an entry deleted and reverses its balance effect.
func (s *Transactions) SoftDelete(ctx context.Context, userID, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.loadOwned(tx, userID, id)
		if err != nil {
			return err
		}
		if entry.Type.IsTransfer() {
			return apperr.InvalidArgument("transfer legs cannot be deleted")
		}
		if _, err := lockAccount(tx, userID, entry.AccountID); err != nil {
			return err
		}
		if err := applyBalanceDelta(tx, entry.AccountID, -entry.Type.SignedCents(entry.AmountCents)); err != nil {
			return err
		}
		if err := tx.Delete(entry).Error; err != nil {
			return apperr.Internal("delete transaction: %v", err)
		}
		return nil
	})
}

// Get returns one active entry owned by userID.
func (s *Transactions) Get(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return s.loadOwned(withCtx(s.DB, ctx), userID, id)
}

// ListFilter narrows and pages a transaction listing.
type ListFilter struct {
	Start      *time.Time
	End        *time.Time // exclusive
	Type       models.MovementType
	CategoryID *uint
	AccountID  *uint
	Page       int
	PageSize   int
}

// List returns a filtered page of active entries, newest first, plus the
// total match count.
func (s *Transactions) List(ctx context.Context, userID uint, f ListFilter) ([]models.Transaction, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > 100 {
		f.PageSize = 20
	}

	q := withCtx(s.DB, ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date < ?", *f.End)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal("count transactions: %v", err)
	}

	var entries []models.Transaction
	err := q.Session(&gorm.Session{}).
		Order("date DESC, id DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&entries).Error
	if err != nil {
		return nil, 0, apperr.Internal("list transactions: %v", err)
	}
	return entries, total, nil
}

func withCtx(db *gorm.DB, ctx context.Context) *gorm.DB {
	return db.WithContext(ctx)
}
