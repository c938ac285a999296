package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportHandler serves the dashboard aggregates and spreadsheet exports.
type ReportHandler struct {
	DB      *gorm.DB
	Reports *service.Reports
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db, Reports: service.NewReports(db)}
}

// Dashboard returns the chart-ready aggregate snapshot.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	dash, err := h.Reports.BuildDashboard(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}

	byCategory := make([]gin.H, 0, len(dash.ExpensesByCategory))
	for _, ct := range dash.ExpensesByCategory {
		byCategory = append(byCategory, gin.H{
			"category_id":   ct.CategoryID,
			"category_name": ct.CategoryName,
			"color":         ct.Color,
			"total_cents":   ct.TotalCents,
			"total":         util.FormatCents(ct.TotalCents),
		})
	}

	util.Success(c, util.Response{
		"expenses_by_category": byCategory,
		"income":               util.FormatCents(dash.IncomeCents),
		"expense":              util.FormatCents(dash.ExpenseCents),
		"cash_flow":            util.FormatCents(dash.CashFlowCents),
		"savings_balance":      util.FormatCents(dash.SavingsCents),
		"fixed_expenses":       util.FormatCents(dash.FixedCents),
		"variable_expenses":    util.FormatCents(dash.VariableCents),
	})
}

func (h *ReportHandler) exportRows(userID uint) ([]models.Transaction, map[uint]string, error) {
	var entries []models.Transaction
	err := h.DB.Where("user_id = ?", userID).
		Order("date DESC").
		Find(&entries).Error
	if err != nil {
		return nil, nil, err
	}

	var cats []models.Category
	if err := h.DB.Unscoped().Where("user_id = ?", userID).Find(&cats).Error; err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}
	return entries, names, nil
}

func categoryName(names map[uint]string, id *uint) string {
	if id == nil {
		return ""
	}
	return names[*id]
}

var exportHeaders = []string{"Type", "Category", "Amount", "Currency", "Description", "Date"}

// ExportXLSX streams the user's ledger as an Excel workbook.
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, names, err := h.exportRows(user.ID)
	if err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, hd := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, hd)
	}

	for idx := range entries {
		e := &entries[idx]
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), string(e.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), categoryName(names, e.CategoryID))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), util.FormatCents(e.AmountCents))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Currency)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Date.Format("2006-01-02"))
	}

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 18)
	f.SetColWidth(sheetName, "C", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 12)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
	}
}

// ExportCSV streams the user's ledger as CSV.
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}

	entries, names, err := h.exportRows(user.ID)
	if err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so Excel opens it correctly
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range entries {
		e := &entries[i]
		writer.Write([]string{
			string(e.Type),
			categoryName(names, e.CategoryID),
			util.FormatCents(e.AmountCents),
			e.Currency,
			e.Description,
			e.Date.Format("2006-01-02"),
		})
	}
}
