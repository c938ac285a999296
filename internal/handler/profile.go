package handler

import (
	"net/http"
	"strings"

	"fintrack/internal/middleware"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type updateProfileReq struct {
	DisplayName *string `json:"display_name"`
	Currency    *string `json:"currency"`
	FiscalDay   *int    `json:"fiscal_day"`
}

// UpdateProfile patches the current user's display name, preferred currency
// and fiscal start day.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.FailStatus(c, http.StatusUnauthorized, "authentication required")
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.FailStatus(c, http.StatusBadRequest, "invalid request body")
			return
		}

		updates := map[string]interface{}{}
		if req.DisplayName != nil {
			name := strings.TrimSpace(*req.DisplayName)
			if len(name) > 64 {
				util.FailStatus(c, http.StatusBadRequest, "display name too long")
				return
			}
			updates["display_name"] = name
			user.DisplayName = name
		}
		if req.Currency != nil {
			if err := util.ValidateCurrency(*req.Currency); err != nil {
				util.Fail(c, err)
				return
			}
			updates["currency"] = *req.Currency
			user.Currency = *req.Currency
		}
		if req.FiscalDay != nil {
			if *req.FiscalDay < 1 || *req.FiscalDay > 28 {
				util.FailStatus(c, http.StatusBadRequest, "fiscal_day must be 1-28")
				return
			}
			updates["fiscal_day"] = *req.FiscalDay
			user.FiscalDay = *req.FiscalDay
		}

		if len(updates) > 0 {
			if err := db.Model(user).Updates(updates).Error; err != nil {
				util.FailStatus(c, http.StatusInternalServerError, "internal server error")
				return
			}
		}

		util.Success(c, util.Response{"user": userPayload(user)})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the current user's password.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.FailStatus(c, http.StatusUnauthorized, "authentication required")
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.FailStatus(c, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.FailStatus(c, http.StatusBadRequest, "old password is incorrect")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.FailStatus(c, http.StatusBadRequest, "password must be 8-64 chars with upper, lower and digit")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			util.FailStatus(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if err := db.Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.FailStatus(c, http.StatusInternalServerError, "internal server error")
			return
		}

		util.Success(c, util.Response{"message": "password changed"})
	}
}
