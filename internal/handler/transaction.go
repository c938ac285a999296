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

// TransactionHandler serves ledger entry CRUD.
type TransactionHandler struct {
	Transactions *service.Transactions
	PageSize     int
}

func NewTransactionHandler(db *gorm.DB, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{
		Transactions: service.NewTransactions(db),
		PageSize:     pageSize,
	}
}

type transactionReq struct {
	AccountID   uint   `json:"account_id" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description" binding:"max=255"`
	Date        string `json:"date"`
}

type transactionResp struct {
	ID            uint      `json:"id"`
	AccountID     uint      `json:"account_id"`
	CategoryID    *uint     `json:"category_id,omitempty"`
	Type          string    `json:"type"`
	AmountCents   int64     `json:"amount_cents"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	TransferGroup string    `json:"transfer_group,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionResp(e *models.Transaction) transactionResp {
	return transactionResp{
		ID:            e.ID,
		AccountID:     e.AccountID,
		CategoryID:    e.CategoryID,
		Type:          string(e.Type),
		AmountCents:   e.AmountCents,
		Amount:        util.FormatCents(e.AmountCents),
		Currency:      e.Currency,
		Description:   e.Description,
		Date:          e.Date,
		TransferGroup: e.TransferGroup,
		CreatedAt:     e.CreatedAt,
	}
}

func (h *TransactionHandler) input(c *gin.Context, req transactionReq) (service.EntryInput, bool) {
	cents, err := util.ParseAmount(req.Amount)
	if err != nil {
		util.Fail(c, err)
		return service.EntryInput{}, false
	}
	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.Fail(c, err)
		return service.EntryInput{}, false
	}
	return service.EntryInput{
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Type:        models.MovementType(req.Type),
		AmountCents: cents,
		Description: req.Description,
		Date:        date,
	}, true
}

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, ok := h.input(c, req)
	if !ok {
		return
	}

	entry, err := h.Transactions.Create(c.Request.Context(), user.ID, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, util.Response{"transaction": toTransactionResp(entry)})
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.Transactions.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(entry)})
}

// List supports pagination plus date range, type, category and account
// filters: ?start=YYYY-MM-DD&end=YYYY-MM-DD&type=expense&category_id=3.
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	f := service.ListFilter{PageSize: h.PageSize}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if s := c.Query("page_size"); s != "" {
		f.PageSize, _ = strconv.Atoi(s)
	}

	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.FailStatus(c, http.StatusBadRequest, "invalid start date, want YYYY-MM-DD")
			return
		}
		f.Start = &t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.FailStatus(c, http.StatusBadRequest, "invalid end date, want YYYY-MM-DD")
			return
		}
		// end date is inclusive: filter below the next day
		t = t.AddDate(0, 0, 1)
		f.End = &t
	}
	if s := c.Query("type"); s != "" {
		typ := models.MovementType(s)
		if !typ.Valid() {
			util.FailStatus(c, http.StatusBadRequest, "invalid type filter")
			return
		}
		f.Type = typ
	}
	if s := c.Query("category_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			util.FailStatus(c, http.StatusBadRequest, "invalid category_id filter")
			return
		}
		cid := uint(id)
		f.CategoryID = &cid
	}
	if s := c.Query("account_id"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			util.FailStatus(c, http.StatusBadRequest, "invalid account_id filter")
			return
		}
		aid := uint(id)
		f.AccountID = &aid
	}

	entries, total, err := h.Transactions.List(c.Request.Context(), user.ID, f)
	if err != nil {
		util.Fail(c, err)
		return
	}

	items := make([]transactionResp, 0, len(entries))
	for i := range entries {
		items = append(items, toTransactionResp(&entries[i]))
	}
	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  f.Page,
	})
}

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}
	in, ok := h.input(c, req)
	if !ok {
		return
	}

	entry, err := h.Transactions.Update(c.Request.Context(), user.ID, id, in)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"transaction": toTransactionResp(entry)})
}

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Transactions.SoftDelete(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "transaction deleted"})
}
