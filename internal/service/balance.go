package service

import (
	"errors"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockAccount loads an account inside tx with a row lock and checks
// ownership. Money-movement paths always go through here so concurrent
// transactions serialize on the account row.
func lockAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acc models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acc, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("account %d not found", accountID)
		}
		return nil, apperr.Internal("load account: %v", err)
	}
	if acc.UserID != userID {
		return nil, apperr.Forbidden("account %d does not belong to you", accountID)
	}
	return &acc, nil
}

// applyBalanceDelta increments or decrements the stored balance by a signed
// delta via a single SQL update. It must run in the same transaction as the
// matching ledger append; application code never read-modify-writes balances.
func applyBalanceDelta(tx *gorm.DB, accountID uint, deltaCents int64) error {
	res := tx.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", deltaCents))
	if res.Error != nil {
		return apperr.Internal("update balance: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("account %d not found", accountID)
	}
	return nil
}
