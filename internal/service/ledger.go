package service

import (
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// appendEntry inserts one immutable ledger entry inside the caller's
// transaction. Financial fields of existing entries are never touched here.
func appendEntry(tx *gorm.DB, entry *models.Transaction) error {
	if entry.AmountCents <= 0 {
		return apperr.Validation("amount must be positive")
	}
	if !entry.Type.Valid() {
		return apperr.Validation("invalid movement type %q", entry.Type)
	}
	if entry.Date.IsZero() {
		entry.Date = time.Now()
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperr.Internal("append ledger entry: %v", err)
	}
	return nil
}
