package models

import "time"

// Budget is a monthly spending limit for one category.
// One budget per (user, category, month, year).
type Budget struct {
	ID         uint  `gorm:"primaryKey"`
	UserID     uint  `gorm:"not null;uniqueIndex:idx_budget_period"`
	CategoryID uint  `gorm:"not null;uniqueIndex:idx_budget_period"`
	Month      int   `gorm:"not null;uniqueIndex:idx_budget_period"` // 1-12
	Year       int   `gorm:"not null;uniqueIndex:idx_budget_period"`
	LimitCents int64 `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Category Category `gorm:"constraint:OnDelete:CASCADE"`
	User     User     `gorm:"constraint:OnDelete:CASCADE"`
}
