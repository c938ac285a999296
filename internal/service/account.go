package service

import (
	"context"
	"errors"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Accounts implements CRUD over accounts. Balances are never written here;
// they move only through Movements and Transactions.
type Accounts struct {
	DB *gorm.DB
}

func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{DB: db}
}

// AccountInput describes a new or updated account.
type AccountInput struct {
	Name        string
	Type        models.AccountType
	Currency    string
	TargetCents *int64
	TargetDate  *time.Time
	IsDefault   bool
	Color       string
	Icon        string
}

func validateAccountInput(in AccountInput) error {
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if !in.Type.Valid() {
		return apperr.Validation("invalid account type %q", in.Type)
	}
	if in.TargetCents != nil && *in.TargetCents <= 0 {
		return apperr.Validation("target amount must be positive")
	}
	if in.TargetCents != nil && in.Type != models.AccountTypeSavings {
		return apperr.Validation("only savings accounts carry a target")
	}
	return nil
}

// Create opens a new account with a zero balance.
func (s *Accounts) Create(ctx context.Context, userID uint, in AccountInput) (*models.Account, error) {
	if err := validateAccountInput(in); err != nil {
		return nil, err
	}
	acc := &models.Account{
		UserID:      userID,
		Name:        in.Name,
		Type:        in.Type,
		Currency:    in.Currency,
		TargetCents: in.TargetCents,
		TargetDate:  in.TargetDate,
		IsDefault:   in.IsDefault,
		Color:       in.Color,
		Icon:        in.Icon,
	}
	if err := withCtx(s.DB, ctx).Create(acc).Error; err != nil {
		return nil, apperr.Internal("create account: %v", err)
	}
	return acc, nil
}

// Get returns one active account owned by userID.
func (s *Accounts) Get(ctx context.Context, userID, id uint) (*models.Account, error) {
	var acc models.Account
	err := withCtx(s.DB, ctx).First(&acc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account %d not found", id)
		}
		return nil, apperr.Internal("load account: %v", err)
	}
	if acc.UserID != userID {
		return nil, apperr.Forbidden("account %d does not belong to you", id)
	}
	return &acc, nil
}

// List returns a user's active accounts, optionally narrowed to one type.
func (s *Accounts) List(ctx context.Context, userID uint, typ models.AccountType) ([]models.Account, error) {
	q := withCtx(s.DB, ctx).Where("user_id = ?", userID)
	if typ != "" {
		q = q.Where("type = ?", typ)
	}
	var accounts []models.Account
	if err := q.Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, apperr.Internal("list accounts: %v", err)
	}
	return accounts, nil
}

// Update patches account metadata. The stored balance is untouched.
func (s *Accounts) Update(ctx context.Context, userID, id uint, in AccountInput) (*models.Account, error) {
	if err := validateAccountInput(in); err != nil {
		return nil, err
	}
	acc, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	acc.Name = in.Name
	acc.Type = in.Type
	acc.Currency = in.Currency
	acc.TargetCents = in.TargetCents
	acc.TargetDate = in.TargetDate
	acc.IsDefault = in.IsDefault
	acc.Color = in.Color
	acc.Icon = in.Icon
	if err := withCtx(s.DB, ctx).Save(acc).Error; err != nil {
		return nil, apperr.Internal("save account: %v", err)
	}
	return acc, nil
}

// SoftDelete removes an account unless it is the protected default.
func (s *Accounts) SoftDelete(ctx context.Context, userID, id uint) error {
	acc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if acc.IsDefault {
		return apperr.InvalidArgument("default account cannot be deleted")
	}
	if err := withCtx(s.DB, ctx).Delete(acc).Error; err != nil {
		return apperr.Internal("delete account: %v", err)
	}
	return nil
}
