package handler

import (
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/apperr"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler serves account CRUD plus the money-movement endpoints.
// When Kind is set, the handler only sees accounts of that type; this is how
// the /savings route group reuses the same code.
type AccountHandler struct {
	Accounts  *service.Accounts
	Movements *service.Movements
	Kind      models.AccountType
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{
		Accounts:  service.NewAccounts(db),
		Movements: service.NewMovements(db),
	}
}

func NewSavingsHandler(db *gorm.DB) *AccountHandler {
	h := NewAccountHandler(db)
	h.Kind = models.AccountTypeSavings
	return h
}

type accountReq struct {
	Name       string  `json:"name" binding:"required,max=64"`
	Type       string  `json:"type"`
	Currency   string  `json:"currency"`
	Target     *string `json:"target_amount"`
	TargetDate *string `json:"target_date"`
	IsDefault  bool    `json:"is_default"`
	Color      string  `json:"color" binding:"max=16"`
	Icon       string  `json:"icon" binding:"max=32"`
}

type accountResp struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Currency     string     `json:"currency"`
	BalanceCents int64      `json:"balance_cents"`
	Balance      string     `json:"balance"`
	Target       *string    `json:"target_amount,omitempty"`
	TargetDate   *time.Time `json:"target_date,omitempty"`
	IsDefault    bool       `json:"is_default"`
	Color        string     `json:"color"`
	Icon         string     `json:"icon"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toAccountResp(a *models.Account) accountResp {
	resp := accountResp{
		ID:           a.ID,
		Name:         a.Name,
		Type:         string(a.Type),
		Currency:     a.Currency,
		BalanceCents: a.BalanceCents,
		Balance:      util.FormatCents(a.BalanceCents),
		TargetDate:   a.TargetDate,
		IsDefault:    a.IsDefault,
		Color:        a.Color,
		Icon:         a.Icon,
		CreatedAt:    a.CreatedAt,
	}
	if a.TargetCents != nil {
		t := util.FormatCents(*a.TargetCents)
		resp.Target = &t
	}
	return resp
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.FailStatus(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (h *AccountHandler) input(c *gin.Context, user *models.User, req accountReq) (service.AccountInput, bool) {
	in := service.AccountInput{
		Name:      req.Name,
		Type:      models.AccountType(req.Type),
		Currency:  req.Currency,
		IsDefault: req.IsDefault,
		Color:     req.Color,
		Icon:      req.Icon,
	}
	if h.Kind != "" {
		in.Type = h.Kind
	}
	if in.Currency == "" {
		in.Currency = user.Currency
	}
	if err := util.ValidateCurrency(in.Currency); err != nil {
		util.Fail(c, err)
		return in, false
	}
	if req.Target != nil {
		cents, err := util.ParseAmount(*req.Target)
		if err != nil {
			util.Fail(c, err)
			return in, false
		}
		in.TargetCents = &cents
	}
	if req.TargetDate != nil {
		d, err := util.ParseDate(*req.TargetDate)
		if err != nil {
			util.Fail(c, err)
			return in, false
		}
		in.TargetDate = &d
	}
	return in, true
}

func (h *AccountHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, ok := h.input(c, user, req)
	if !ok {
		return
	}

	acc, err := h.Accounts.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, util.Response{"account": toAccountResp(acc)})
}

func (h *AccountHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	accounts, err := h.Accounts.List(c.Request.Context(), user.ID, h.Kind)
	if err != nil {
		util.Fail(c, err)
		return
	}
	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	util.Success(c, util.Response{"accounts": items})
}

func (h *AccountHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	acc, err := h.owned(c, user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": toAccountResp(acc)})
}

func notFoundForKind(kind models.AccountType, id uint) error {
	return apperr.NotFound("%s account %d not found", kind, id)
}

// owned loads an account and, for scoped handlers, checks the type matches.
func (h *AccountHandler) owned(c *gin.Context, userID, id uint) (*models.Account, error) {
	acc, err := h.Accounts.Get(c.Request.Context(), userID, id)
	if err != nil {
		return nil, err
	}
	if h.Kind != "" && acc.Type != h.Kind {
		return nil, notFoundForKind(h.Kind, id)
	}
	return acc, nil
}

func (h *AccountHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.owned(c, user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	var req accountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, ok := h.input(c, user, req)
	if !ok {
		return
	}

	acc, err := h.Accounts.Update(c.Request.Context(), user.ID, id, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"account": toAccountResp(acc)})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.owned(c, user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	if err := h.Accounts.SoftDelete(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "account deleted"})
}

type transferReq struct {
	FromAccountID uint   `json:"from_account_id" binding:"required"`
	ToAccountID   uint   `json:"to_account_id" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"max=255"`
	Date          string `json:"date"`
}

// Transfer moves funds between two of the caller's accounts atomically.
func (h *AccountHandler) Transfer(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req transferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Fail(c, err)
		return
	}

	res, err := h.Movements.Transfer(c.Request.Context(), user.ID, service.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		AmountCents:   cents,
		Description:   req.Description,
		Date:          date,
	})
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"from": toAccountResp(res.From),
		"to":   toAccountResp(res.To),
	})
}

type depositReq struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
	Date        string `json:"date"`
}

// Deposit credits the account and records an income ledger entry.
func (h *AccountHandler) Deposit(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if _, err := h.owned(c, user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	var req depositReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Fail(c, err)
		return
	}

	acc, entry, err := h.Movements.Deposit(c.Request.Context(), user.ID, id, cents, req.Description, date)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.Success(c, util.Response{
		"account":     toAccountResp(acc),
		"transaction": toTransactionResp(entry),
	})
}
