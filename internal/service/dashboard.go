package service

import (
	"context"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Reports derives the chart-ready dashboard aggregates. Everything here is
// read-only and excludes soft-deleted entries.
type Reports struct {
	DB *gorm.DB
}

func NewReports(db *gorm.DB) *Reports {
	return &Reports{DB: db}
}

// CategoryTotal is an expense total for one category.
type CategoryTotal struct {
	CategoryID   *uint  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Color        string `json:"color"`
	TotalCents   int64  `json:"total_cents"`
}

// Dashboard is the aggregate snapshot for one user.
type Dashboard struct {
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	IncomeCents        int64           `json:"income_cents"`
	ExpenseCents       int64           `json:"expense_cents"`
	CashFlowCents      int64           `json:"cash_flow_cents"`
	SavingsCents       int64           `json:"savings_cents"`
	FixedCents         int64           `json:"fixed_cents"`
	VariableCents      int64           `json:"variable_cents"`
}

// BuildDashboard groups a user's active ledger entries into the dashboard
// aggregates: expense totals per category, overall income/expense/cash-flow,
// total savings balance and the fixed-vs-variable expense split.
func (s *Reports) BuildDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	db := withCtx(s.DB, ctx)

	var entries []models.Transaction
	err := db.Where("user_id = ? AND type IN ?", userID,
		[]models.MovementType{models.MovementIncome, models.MovementExpense}).
		Find(&entries).Error
	if err != nil {
		return nil, apperr.Internal("load entries: %v", err)
	}

	var cats []models.Category
	if err := db.Where("user_id = ?", userID).Find(&cats).Error; err != nil {
		return nil, apperr.Internal("load categories: %v", err)
	}
	catByID := make(map[uint]*models.Category, len(cats))
	for i := range cats {
		catByID[cats[i].ID] = &cats[i]
	}

	dash := &Dashboard{}
	totals := make(map[uint]*CategoryTotal)
	var uncategorized *CategoryTotal

	for i := range entries {
		e := &entries[i]
		if e.Type == models.MovementIncome {
			dash.IncomeCents += e.AmountCents
			continue
		}
		dash.ExpenseCents += e.AmountCents

		var cat *models.Category
		if e.CategoryID != nil {
			cat = catByID[*e.CategoryID]
		}
		if cat == nil {
			if uncategorized == nil {
				uncategorized = &CategoryTotal{CategoryName: "Uncategorized"}
			}
			uncategorized.TotalCents += e.AmountCents
			dash.VariableCents += e.AmountCents
			continue
		}

		ct, ok := totals[cat.ID]
		if !ok {
			id := cat.ID
			ct = &CategoryTotal{CategoryID: &id, CategoryName: cat.Name, Color: cat.Color}
			totals[cat.ID] = ct
		}
		ct.TotalCents += e.AmountCents

		if cat.IsFixed {
			dash.FixedCents += e.AmountCents
		} else {
			dash.VariableCents += e.AmountCents
		}
	}

	dash.CashFlowCents = dash.IncomeCents - dash.ExpenseCents

	for _, c := range cats {
		if ct, ok := totals[c.ID]; ok {
			dash.ExpensesByCategory = append(dash.ExpensesByCategory, *ct)
		}
	}
	if uncategorized != nil {
		dash.ExpensesByCategory = append(dash.ExpensesByCategory, *uncategorized)
	}

	var savings int64
	err = db.Model(&models.Account{}).
		Where("user_id = ? AND type = ?", userID, models.AccountTypeSavings).
		Select("COALESCE(SUM(balance_cents), 0)").
		Scan(&savings).Error
	if err != nil {
		return nil, apperr.Internal("sum savings balances: %v", err)
	}
	dash.SavingsCents = savings

	return dash, nil
}
