package router

import (
	"fintrack/internal/config"
	"fintrack/internal/handler"
	"fintrack/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup configures the gin engine and the /api route table.
func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT.Secret, cfg.JWT.Issuer,
		cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.Auth(cfg.JWT.Secret, db),
		middleware.Audit(db),
	)

	protected.GET("/auth/profile", authHandler.Profile)
	protected.PATCH("/auth/profile", handler.UpdateProfile(db))
	protected.POST("/auth/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	accountHandler := handler.NewAccountHandler(db)
	protected.POST("/accounts", accountHandler.Create)
	protected.GET("/accounts", accountHandler.List)
	protected.GET("/accounts/:id", accountHandler.Get)
	protected.PATCH("/accounts/:id", accountHandler.Update)
	protected.DELETE("/accounts/:id", accountHandler.Delete)
	protected.POST("/accounts/transfer", accountHandler.Transfer)
	protected.POST("/accounts/:id/deposit", accountHandler.Deposit)

	savingsHandler := handler.NewSavingsHandler(db)
	protected.POST("/savings", savingsHandler.Create)
	protected.GET("/savings", savingsHandler.List)
	protected.GET("/savings/:id", savingsHandler.Get)
	protected.PATCH("/savings/:id", savingsHandler.Update)
	protected.DELETE("/savings/:id", savingsHandler.Delete)
	protected.POST("/savings/transfer", savingsHandler.Transfer)
	protected.POST("/savings/:id/deposit", savingsHandler.Deposit)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.POST("/categories", categoryHandler.Create)
	protected.GET("/categories", categoryHandler.List)
	protected.PATCH("/categories/:id", categoryHandler.Update)
	protected.DELETE("/categories/:id", categoryHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(db, cfg.App.PageSize)
	protected.POST("/transactions", transactionHandler.Create)
	protected.GET("/transactions", transactionHandler.List)
	protected.GET("/transactions/:id", transactionHandler.Get)
	protected.PATCH("/transactions/:id", transactionHandler.Update)
	protected.DELETE("/transactions/:id", transactionHandler.Delete)

	budgetHandler := handler.NewBudgetHandler(db)
	protected.POST("/budgets", budgetHandler.Create)
	protected.GET("/budgets", budgetHandler.Progress)
	protected.PATCH("/budgets/:id", budgetHandler.Update)
	protected.DELETE("/budgets/:id", budgetHandler.Delete)

	reportHandler := handler.NewReportHandler(db)
	protected.GET("/reports/dashboard", reportHandler.Dashboard)
	protected.GET("/reports/export", reportHandler.ExportXLSX)
	protected.GET("/reports/export/csv", reportHandler.ExportCSV)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.List)

	return r
}
