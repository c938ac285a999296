package models

import (
	"time"

	"gorm.io/gorm"
)

// CategoryType tells which movement types a category can classify.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeBoth    CategoryType = "both"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeIncome, CategoryTypeExpense, CategoryTypeBoth:
		return true
	}
	return false
}

// Category represents an income/expense category. Nesting is one level deep:
// a category with a parent can never itself be a parent.
type Category struct {
	ID       uint         `gorm:"primaryKey"`
	UserID   uint         `gorm:"index;not null"`
	Name     string       `gorm:"size:64;not null"`
	Type     CategoryType `gorm:"size:16;index;not null"`
	ParentID *uint        `gorm:"index"`
	IsFixed  bool         `gorm:"not null;default:false"` // recurring, non-discretionary cost
	Color    string       `gorm:"size:16"`
	Icon     string       `gorm:"size:32"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	Parent *Category `gorm:"foreignKey:ParentID"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`
}
