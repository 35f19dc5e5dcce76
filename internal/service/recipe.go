package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/models"
)

// RecipeService owns the validated create/update lifecycle of the recipe
// aggregate. Every mutation writes the recipe row, the tag set and the
// ingredient lines in a single transaction.
type RecipeService struct {
	db        *gorm.DB
	validator *RecipeValidator
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB, validator *RecipeValidator) *RecipeService {
	return &RecipeService{db: db, validator: validator}
}

// RecipeFilter narrows a recipe listing. Nil/empty fields are ignored.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeFlags are the per-viewer membership flags attached to recipe
// representations.
type RecipeFlags struct {
	IsFavorited      bool
	IsInShoppingCart bool
}

// Create validates the payload and persists a new recipe aggregate for the
// author. The recipe row, its tag set and its ingredient lines commit
// together or not at all.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, payload *RecipePayload) (*models.Recipe, error) {
	validated, err := s.validator.Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        payload.Name,
		Text:        payload.Text,
		CookingTime: payload.CookingTime,
		ImageURL:    payload.ImageURL,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, &recipe, validated.Tags); err != nil {
			return err
		}
		return createLines(tx, recipe.ID, validated.Lines)
	})
	if err != nil {
		return nil, translateWriteError(err)
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces the whole aggregate: scalar fields are overwritten, the
// existing tag set and ingredient lines are discarded and recreated from the
// payload. An incremental diff would risk orphaned lines and duplicate-key
// races; the full replace runs inside one transaction.
func (s *RecipeService) Update(ctx context.Context, recipeID, authorID uuid.UUID, payload *RecipePayload) (*models.Recipe, error) {
	validated, err := s.validator.Validate(ctx, payload)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := tx
		if tx.Dialector.Name() == "postgres" {
			lookup = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var recipe models.Recipe
		if err := lookup.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
			}
			return err
		}
		if recipe.AuthorID != authorID {
			return fmt.Errorf("recipe %s: %w", recipeID, ErrForbidden)
		}

		updates := map[string]interface{}{
			"name":         payload.Name,
			"text":         payload.Text,
			"cooking_time": payload.CookingTime,
		}
		if payload.ImageURL != "" {
			updates["image_url"] = payload.ImageURL
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, &recipe, validated.Tags); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.IngredientLine{}).Error; err != nil {
			return err
		}
		return createLines(tx, recipe.ID, validated.Lines)
	})
	if err != nil {
		return nil, translateWriteError(err)
	}

	return s.Get(ctx, recipeID)
}

// Get retrieves a recipe with its author, tags and ingredient lines.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe and everything hanging off it: ingredient lines,
// tag associations, favorites and cart entries.
func (s *RecipeService) Delete(ctx context.Context, recipeID, authorID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("recipe %s: %w", recipeID, ErrNotFound)
			}
			return err
		}
		if recipe.AuthorID != authorID {
			return fmt.Errorf("recipe %s: %w", recipeID, ErrForbidden)
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.IngredientLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.UserRecipeRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// List returns recipes matching the filter, newest publications first, then
// by author and name.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.FavoritedBy != nil {
		query = query.Where(relationSubquery(s.db, models.KindFavorite, *filter.FavoritedBy))
	}
	if filter.InCartOf != nil {
		query = query.Where(relationSubquery(s.db, models.KindShoppingCart, *filter.InCartOf))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := query.
		Order("recipes.pub_date DESC").
		Order("recipes.author_id").
		Order("recipes.name").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FlagsFor computes the viewer's favorite/cart membership for a set of
// recipes in one query. A nil viewer (anonymous) gets all-false flags.
func (s *RecipeService) FlagsFor(ctx context.Context, viewerID *uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]RecipeFlags, error) {
	flags := make(map[uuid.UUID]RecipeFlags, len(recipeIDs))
	for _, id := range recipeIDs {
		flags[id] = RecipeFlags{}
	}
	if viewerID == nil || len(recipeIDs) == 0 {
		return flags, nil
	}

	var relations []models.UserRecipeRelation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id IN ?", *viewerID, recipeIDs).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}
	for _, rel := range relations {
		f := flags[rel.RecipeID]
		switch rel.Kind {
		case models.KindFavorite:
			f.IsFavorited = true
		case models.KindShoppingCart:
			f.IsInShoppingCart = true
		}
		flags[rel.RecipeID] = f
	}
	return flags, nil
}

func relationSubquery(db *gorm.DB, kind models.RelationKind, userID uuid.UUID) *gorm.DB {
	return db.Where("recipes.id IN (?)", db.Model(&models.UserRecipeRelation{}).
		Select("recipe_id").
		Where("user_id = ? AND kind = ?", userID, kind))
}

func replaceTags(tx *gorm.DB, recipe *models.Recipe, tags []models.Tag) error {
	assoc := tx.Model(recipe).Association("Tags")
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func createLines(tx *gorm.DB, recipeID uuid.UUID, lines []models.IngredientLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ID = uuid.Nil
		lines[i].RecipeID = recipeID
	}
	return tx.Omit("Ingredient").Create(&lines).Error
}

// translateWriteError maps a constraint violation inside the aggregate
// transaction to Conflict; callers never see partial state.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
