package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RelationService stores favorite and shopping-cart memberships. Both kinds
// share one table and one code path, discriminated by RelationKind.
type RelationService struct {
	db *gorm.DB
}

// NewRelationService creates a new RelationService instance.
func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

// Add puts the recipe on the user's list of the given kind. The existence
// pre-check yields a friendly AlreadyExists; the unique index catches the
// racing insert and is reported the same way.
func (s *RelationService) Add(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.UserRecipeRelation{}).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("recipe %s already on %s list: %w", recipeID, kind, ErrAlreadyExists)
	}

	relation := models.UserRecipeRelation{
		UserID:   userID,
		RecipeID: recipeID,
		Kind:     kind,
	}
	if err := s.db.WithContext(ctx).Create(&relation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("recipe %s already on %s list: %w", recipeID, kind, ErrAlreadyExists)
		}
		return nil, err
	}
	return &recipe, nil
}

// Remove deletes the membership, reporting NotFound when there is nothing to
// delete.
func (s *RelationService) Remove(ctx context.Context, kind models.RelationKind, userID, recipeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ? AND kind = ?", userID, recipeID, kind).
		Delete(&models.UserRecipeRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("recipe %s not on %s list: %w", recipeID, kind, ErrNotFound)
	}
	return nil
}
