package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/router"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "fintrack-test"
	cfg.JWT.ExpireHours = 1
	cfg.Security.BcryptCost = 4 // keep the test fast
	cfg.App.PageSize = 20
	return router.Setup(cfg, db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestRegisterLoginProfile(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice_1",
		"password": "Sup3rSecret",
		"currency": "EUR",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice_1",
		"password": "Sup3rSecret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ := decode(t, w)["data"].(map[string]interface{})
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login response has no token")
	}

	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile status = %d, body %s", w.Code, w.Body.String())
	}
	data, _ = decode(t, w)["data"].(map[string]interface{})
	user, _ := data["user"].(map[string]interface{})
	if got := user["username"]; got != "alice_1" {
		t.Errorf("profile username = %v, want alice_1", got)
	}
	if got := user["currency"]; got != "EUR" {
		t.Errorf("profile currency = %v, want EUR", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name string
		body gin.H
		code int
	}{
		{"short username", gin.H{"username": "ab", "password": "Sup3rSecret"}, http.StatusBadRequest},
		{"weak password", gin.H{"username": "alice_1", "password": "password"}, http.StatusBadRequest},
		{"bad currency", gin.H{"username": "alice_1", "password": "Sup3rSecret", "currency": "us"}, http.StatusBadRequest},
		{"missing body", nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", tc.body)
			if w.Code != tc.code {
				t.Errorf("status = %d, want %d, body %s", w.Code, tc.code, w.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r := newTestRouter(t)

	body := gin.H{"username": "alice_1", "password": "Sup3rSecret"}
	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", body); w.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", w.Code)
	}

	// same name, different case
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ALICE_1", "password": "Sup3rSecret",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", w.Code)
	}
}

func TestLoginWrongPasswordAndLockout(t *testing.T) {
	r := newTestRouter(t)

	if w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice_1", "password": "Sup3rSecret",
	}); w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	bad := gin.H{"username": "alice_1", "password": "WrongPass1"}
	for i := 0; i < 5; i++ {
		if w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", bad); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, w.Code)
		}
	}

	// locked now, even with the right password
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": "alice_1", "password": "Sup3rSecret",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("login while locked status = %d, want 401", w.Code)
	}
	if msg, _ := decode(t, w)["message"].(string); msg != "account locked, try again later" {
		t.Errorf("locked message = %q", msg)
	}
}

func TestErrorEnvelopeShape(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/accounts", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", w.Code)
	}

	body := decode(t, w)
	if got := body["statusCode"]; fmt.Sprint(got) != "401" {
		t.Errorf("statusCode = %v, want 401", got)
	}
	if got := body["path"]; got != "/api/accounts" {
		t.Errorf("path = %v, want /api/accounts", got)
	}
	if got := body["method"]; got != http.MethodGet {
		t.Errorf("method = %v, want GET", got)
	}
	if body["timestamp"] == "" || body["timestamp"] == nil {
		t.Error("error envelope has no timestamp")
	}
	if body["message"] == "" || body["message"] == nil {
		t.Error("error envelope has no message")
	}
}
