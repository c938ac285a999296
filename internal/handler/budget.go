package handler

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BudgetHandler serves budget CRUD and monthly progress.
type BudgetHandler struct {
	Budgets *service.Budgets
}

func NewBudgetHandler(db *gorm.DB) *BudgetHandler {
	return &BudgetHandler{Budgets: service.NewBudgets(db)}
}

type budgetReq struct {
	CategoryID uint   `json:"category_id" binding:"required"`
	Month      int    `json:"month" binding:"required"`
	Year       int    `json:"year" binding:"required"`
	Limit      string `json:"limit" binding:"required"`
}

type budgetResp struct {
	ID         uint   `json:"id"`
	CategoryID uint   `json:"category_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	LimitCents int64  `json:"limit_cents"`
	Limit      string `json:"limit"`
}

func toBudgetResp(b *models.Budget) budgetResp {
	return budgetResp{
		ID:         b.ID,
		CategoryID: b.CategoryID,
		Month:      b.Month,
		Year:       b.Year,
		LimitCents: b.LimitCents,
		Limit:      util.FormatCents(b.LimitCents),
	}
}

func (h *BudgetHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	limitCents, err := util.ParseAmount(req.Limit)
	if err != nil {
		util.Fail(c, err)
		return
	}

	budget, err := h.Budgets.Create(c.Request.Context(), user.ID, service.BudgetInput{
		CategoryID: req.CategoryID,
		Month:      req.Month,
		Year:       req.Year,
		LimitCents: limitCents,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, util.Response{"budget": toBudgetResp(budget)})
}

type progressResp struct {
	Budget       budgetResp `json:"budget"`
	CategoryName string     `json:"category_name"`
	Spent        string     `json:"spent"`
	SpentCents   int64      `json:"spent_cents"`
	Remaining    string     `json:"remaining"`
	Percentage   int        `json:"percentage"`
	Status       string     `json:"status"`
}

// Progress returns every budget of ?month=&year= (defaulting to the current
// month) with derived spent/remaining/percentage/status.
func (h *BudgetHandler) Progress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	now := time.Now()
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))

	progress, err := h.Budgets.Progress(c.Request.Context(), user.ID, month, year)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]progressResp, 0, len(progress))
	for _, p := range progress {
		items = append(items, progressResp{
			Budget:       toBudgetResp(&p.Budget),
			CategoryName: p.CategoryName,
			Spent:        util.FormatCents(p.SpentCents),
			SpentCents:   p.SpentCents,
			Remaining:    util.FormatCents(p.RemainingCents),
			Percentage:   p.Percentage,
			Status:       string(p.Status),
		})
	}
	util.Success(c, util.Response{
		"month":   month,
		"year":    year,
		"budgets": items,
	})
}

type budgetPatchReq struct {
	Limit string `json:"limit" binding:"required"`
}

func (h *BudgetHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req budgetPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}
	limitCents, err := util.ParseAmount(req.Limit)
	if err != nil {
		util.Fail(c, err)
		return
	}

	budget, err := h.Budgets.UpdateLimit(c.Request.Context(), user.ID, id, limitCents)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"budget": toBudgetResp(budget)})
}

func (h *BudgetHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Budgets.Delete(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "budget deleted"})
}
