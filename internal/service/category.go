package service

import (
	"context"
	"errors"

	"fintrack/internal/apperr"
	"fintrack/internal/models"

	"gorm.io/gorm"
)

// Categories implements CRUD over categories, enforcing the one-level
// nesting rule and per-user name uniqueness among active categories.
type Categories struct {
	DB *gorm.DB
}

func NewCategories(db *gorm.DB) *Categories {
	return &Categories{DB: db}
}

// CategoryInput describes a new or updated category.
type CategoryInput struct {
	Name     string
	Type     models.CategoryType
	ParentID *uint
	IsFixed  bool
	Color    string
	Icon     string
}

func (s *Categories) validate(tx *gorm.DB, userID uint, in CategoryInput, selfID uint) error {
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	if !in.Type.Valid() {
		return apperr.Validation("invalid category type %q", in.Type)
	}

	var count int64
	q := tx.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, in.Name)
	if selfID != 0 {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return apperr.Internal("check category name: %v", err)
	}
	if count > 0 {
		return apperr.Conflict("category %q already exists", in.Name)
	}

	if in.ParentID == nil {
		return nil
	}
	if selfID != 0 && *in.ParentID == selfID {
		return apperr.Validation("category cannot be its own parent")
	}
	var parent models.Category
	err := tx.Where("id = ? AND user_id = ?", *in.ParentID, userID).First(&parent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("parent category %d not found", *in.ParentID)
		}
		return apperr.Internal("load parent category: %v", err)
	}
	// two levels only: a child cannot become a parent, so the chosen parent
	// must itself be a root
	if parent.ParentID != nil {
		return apperr.Validation("category nesting is limited to one level")
	}
	if selfID != 0 {
		var children int64
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", selfID).Count(&children).Error; err != nil {
			return apperr.Internal("check category children: %v", err)
		}
		if children > 0 {
			return apperr.Validation("category with children cannot get a parent")
		}
	}
	return nil
}

// Create adds a category.
func (s *Categories) Create(ctx context.Context, userID uint, in CategoryInput) (*models.Category, error) {
	db := withCtx(s.DB, ctx)
	if err := s.validate(db, userID, in, 0); err != nil {
		return nil, err
	}
	cat := &models.Category{
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		ParentID: in.ParentID,
		IsFixed:  in.IsFixed,
		Color:    in.Color,
		Icon:     in.Icon,
	}
	if err := db.Create(cat).Error; err != nil {
		return nil, apperr.Internal("create category: %v", err)
	}
	return cat, nil
}

// List returns a user's active categories.
func (s *Categories) List(ctx context.Context, userID uint) ([]models.Category, error) {
	var cats []models.Category
	err := withCtx(s.DB, ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&cats).Error
	if err != nil {
		return nil, apperr.Internal("list categories: %v", err)
	}
	return cats, nil
}

func (s *Categories) loadOwned(tx *gorm.DB, userID, id uint) (*models.Category, error) {
	var cat models.Category
	if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category %d not found", id)
		}
		return nil, apperr.Internal("load category: %v", err)
	}
	return &cat, nil
}

// Update patches a category.
func (s *Categories) Update(ctx context.Context, userID, id uint, in CategoryInput) (*models.Category, error) {
	db := withCtx(s.DB, ctx)
	cat, err := s.loadOwned(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(db, userID, in, id); err != nil {
		return nil, err
	}

	cat.Name = in.Name
	cat.Type = in.Type
	cat.ParentID = in.ParentID
	cat.IsFixed = in.IsFixed
	cat.Color = in.Color
	cat.Icon = in.Icon
	if err := db.Save(cat).Error; err != nil {
		return nil, apperr.Internal("save category: %v", err)
	}
	return cat, nil
}

// SoftDelete removes a category. Transactions keep their reference; listing
// and aggregation resolve it as uncategorized once the category is gone.
func (s *Categories) SoftDelete(ctx context.Context, userID, id uint) error {
	db := withCtx(s.DB, ctx)
	cat, err := s.loadOwned(db, userID, id)
	if err != nil {
		return err
	}
	var children int64
	if err := db.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
		return apperr.Internal("check category children: %v", err)
	}
	if children > 0 {
		return apperr.InvalidArgument("category with children cannot be deleted")
	}
	if err := db.Delete(cat).Error; err != nil {
		return apperr.Internal("delete category: %v", err)
	}
	return nil
}
