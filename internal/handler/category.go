package handler

import (
	"net/http"

	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/service"
	"fintrack/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves category CRUD.
type CategoryHandler struct {
	Categories *service.Categories
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{Categories: service.NewCategories(db)}
}

type categoryReq struct {
	Name     string `json:"name" binding:"required,max=64"`
	Type     string `json:"type" binding:"required,oneof=income expense both"`
	ParentID *uint  `json:"parent_id"`
	IsFixed  bool   `json:"is_fixed"`
	Color    string `json:"color" binding:"max=16"`
	Icon     string `json:"icon" binding:"max=32"`
}

type categoryResp struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID *uint  `json:"parent_id,omitempty"`
	IsFixed  bool   `json:"is_fixed"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{
		ID:       cat.ID,
		Name:     cat.Name,
		Type:     string(cat.Type),
		ParentID: cat.ParentID,
		IsFixed:  cat.IsFixed,
		Color:    cat.Color,
		Icon:     cat.Icon,
	}
}

func categoryInput(req categoryReq) service.CategoryInput {
	return service.CategoryInput{
		Name:     req.Name,
		Type:     models.CategoryType(req.Type),
		ParentID: req.ParentID,
		IsFixed:  req.IsFixed,
		Color:    req.Color,
		Icon:     req.Icon,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Categories.Create(c.Request.Context(), user.ID, categoryInput(req))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Created(c, util.Response{"category": toCategoryResp(cat)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	cats, err := h.Categories.List(c.Request.Context(), user.ID)
	if err != nil {
		util.Fail(c, err)
		return
	}
	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"categories": items})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.FailStatus(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cat, err := h.Categories.Update(c.Request.Context(), user.ID, id, categoryInput(req))
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"category": toCategoryResp(cat)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.FailStatus(c, http.StatusUnauthorized, "authentication required")
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Categories.SoftDelete(c.Request.Context(), user.ID, id); err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, util.Response{"message": "category deleted"})
}
