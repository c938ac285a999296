package service

import (
	"context"
	"errors"
	"math"

	"fintrack/internal/apperr"
	"fintrack/internal/models"
	"fintrack/internal/util"

	"gorm.io/gorm"
)

// BudgetStatus tells how far along a budget is.
type BudgetStatus string

const (
	BudgetStatusOK       BudgetStatus = "OK"
	BudgetStatusExceeded BudgetStatus = "EXCEEDED"
)

// Budgets implements budget CRUD and the monthly progress aggregation.
type Budgets struct {
	DB *gorm.DB
}

func NewBudgets(db *gorm.DB) *Budgets {
	return &Budgets{DB: db}
}

// BudgetInput describes a new or updated budget row.
type BudgetInput struct {
	CategoryID uint
	Month      int
	Year       int
	LimitCents int64
}

func validateBudgetInput(in BudgetInput) error {
	if err := util.ValidateMonth(in.Month); err != nil {
		return err
	}
	if in.Year < 1970 || in.Year > 9999 {
		return apperr.Validation("invalid year %d", in.Year)
	}
	if in.LimitCents <= 0 {
		return apperr.Validation("limit must be positive")
	}
	return nil
}

// Create adds a budget row; one per (user, category, month, year).
func (s *Budgets) Create(ctx context.Context, userID uint, in BudgetInput) (*models.Budget, error) {
	if err := validateBudgetInput(in); err != nil {
		return nil, err
	}
	db := withCtx(s.DB, ctx)

	var cat models.Category
	if err := db.Where("id = ? AND user_id = ?", in.CategoryID, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", in.CategoryID)
		}
		return nil, apperr.Internal("load category: %v", err)
	}

	var count int64
	err := db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ? AND month = ? AND year = ?",
			userID, in.CategoryID, in.Month, in.Year).
		Count(&count).Error
	if err != nil {
		return nil, apperr.Internal("check budget period: %v", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("budget for category %q in %d-%02d already exists",
			cat.Name, in.Year, in.Month)
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: in.CategoryID,
		Month:      in.Month,
		Year:       in.Year,
		LimitCents: in.LimitCents,
	}
	if err := db.Create(budget).Error; err != nil {
		return nil, apperr.Internal("create budget: %v", err)
	}
	return budget, nil
}

func (s *Budgets) loadOwned(tx *gorm.DB, userID, id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("budget %d not found", id)
		}
		return nil, apperr.Internal("load budget: %v", err)
	}
	return &budget, nil
}

// UpdateLimit changes a budget's limit.
func (s *Budgets) UpdateLimit(ctx context.Context, userID, id uint, limitCents int64) (*models.Budget, error) {
	if limitCents <= 0 {
		return nil, apperr.Validation("limit must be positive")
	}
	db := withCtx(s.DB, ctx)
	budget, err := s.loadOwned(db, userID, id)
	if err != nil {
		return nil, err
	}
	budget.LimitCents = limitCents
	if err := db.Save(budget).Error; err != nil {
		return nil, apperr.Internal("save budget: %v", err)
	}
	return budget, nil
}

// Delete removes a budget row.
func (s *Budgets) Delete(ctx context.Context, userID, id uint) error {
	db := withCtx(s.DB, ctx)
	budget, err := s.loadOwned(db, userID, id)
	if err != nil {
		return err
	}
	if err := db.Delete(budget).Error; err != nil {
		return apperr.Internal("delete budget: %v", err)
	}
	return nil
}

// BudgetProgress is one budget row with its derived spend-vs-limit numbers.
type BudgetProgress struct {
	Budget         models.Budget `json:"budget"`
	CategoryName   string        `json:"category_name"`
	SpentCents     int64         `json:"spent_cents"`
	RemainingCents int64         `json:"remaining_cents"` // may be negative
	Percentage     int           `json:"percentage"`
	Status         BudgetStatus  `json:"status"`
}

// Progress derives spent/remaining/percentage for every budget of the given
// month by summing that month's active expense entries per category.
// Soft-deleted entries never count.
func (s *Budgets) Progress(ctx context.Context, userID uint, month, year int) ([]BudgetProgress, error) {
	if err := util.ValidateMonth(month); err != nil {
		return nil, err
	}
	db := withCtx(s.DB, ctx)

	var budgets []models.Budget
	// unscoped preload so deleted categories still resolve a name
	err := db.Preload("Category", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("id ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, apperr.Internal("list budgets: %v", err)
	}

	start, end := util.MonthWindow(year, month)
	out := make([]BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		var spent int64
		err := db.Model(&models.Transaction{}).
			Where("user_id = ? AND category_id = ? AND type = ? AND date >= ? AND date < ?",
				userID, b.CategoryID, models.MovementExpense, start, end).
			Select("COALESCE(SUM(amount_cents), 0)").
			Scan(&spent).Error
		if err != nil {
			return nil, apperr.Internal("sum expenses: %v", err)
		}

		pct := 0
		if b.LimitCents > 0 {
			pct = int(math.Round(float64(spent) / float64(b.LimitCents) * 100))
		}
		// the warning tier at >=80% belongs to the consuming UI
		status := BudgetStatusOK
		if pct > 100 {
			status = BudgetStatusExceeded
		}

		out = append(out, BudgetProgress{
			Budget:         b,
			CategoryName:   b.Category.Name,
			SpentCents:     spent,
			RemainingCents: b.LimitCents - spent,
			Percentage:     pct,
			Status:         status,
		})
	}
	return out, nil
}
