package handler

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	DB         *gorm.DB
	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int
}

func NewAuthHandler(db *gorm.DB, jwtSecret, issuer string, ttlHours, bcryptCost int) *AuthHandler {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &AuthHandler{
		DB:         db,
		JWTSecret:  jwtSecret,
		JWTIssuer:  issuer,
		TokenTTL:   time.Duration(ttlHours) * time.Hour,
		BcryptCost: bcryptCost,
	}
}

type registerReq struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name" binding:"max=64"`
	Currency    string `json:"currency"`
	FiscalDay   int    `json:"fiscal_day"`
}

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// isStrongPassword: 8-64 chars with upper, lower and digit.
func isStrongPassword(pwd string) bool {
	if len(pwd) < 8 || len(pwd) > 64 {
		return false
	}
	var hasUpper, hasLower, hasDigit bool
	for _, ch := range pwd {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		}
	}
	return hasUpper && hasLower && hasDigit
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"currency":     u.Currency,
		"fiscal_day":   u.FiscalDay,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if !usernameRe.MatchString(req.Username) {
		util.FailStatus(c, http.StatusBadRequest, "username must be 3-20 letters, digits or underscores")
		return
	}
	if !isStrongPassword(req.Password) {
		util.FailStatus(c, http.StatusBadRequest, "password must be 8-64 chars with upper, lower and digit")
		return
	}
	if req.Currency == "" {
		req.Currency = "USD"
	}
	if err := util.ValidateCurrency(req.Currency); err != nil {
		util.Fail(c, err)
		return
	}
	if req.FiscalDay == 0 {
		req.FiscalDay = 1
	}
	if req.FiscalDay < 1 || req.FiscalDay > 28 {
		util.FailStatus(c, http.StatusBadRequest, "fiscal_day must be 1-28")
		return
	}

	// case-insensitive uniqueness
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}
	if count > 0 {
		util.FailStatus(c, http.StatusConflict, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		Currency:     req.Currency,
		FiscalDay:    req.FiscalDay,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}

	util.Created(c, util.Response{"user": userPayload(&user)})
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const (
	maxFailedLogins = 5
	lockDuration    = 10 * time.Minute
)

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	if err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).
		First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.FailStatus(c, http.StatusUnauthorized, "invalid username or password")
		} else {
			util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.FailStatus(c, http.StatusUnauthorized, "account locked, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLogins {
			lockUntil := now.Add(lockDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
		}
		_ = h.DB.Save(&user).Error
		util.FailStatus(c, http.StatusUnauthorized, "invalid username or password")
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	_ = h.DB.Save(&user).Error

	token, err := util.GenerateToken(h.JWTSecret, h.JWTIssuer, user.ID, h.TokenTTL)
	if err != nil {
		util.FailStatus(c, http.StatusInternalServerError, "internal server error")
		return
	}

	util.Success(c, util.Response{
		"token": token,
		"user":  userPayload(&user),
	})
}

// Profile returns the authenticated user, proving the token is valid.
func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	util.Success(c, util.Response{"user": userPayload(user)})
}
