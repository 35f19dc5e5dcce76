package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

var (
	hexColorRe = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Usernames that would collide with routes or read as impersonation.
var reservedUsernames = []string{"me", "admin", "set_password", "subscriptions"}

// ValidHexColor reports whether color is a `#`-prefixed 3- or 6-digit HEX
// string, with a message for the failing case.
func ValidHexColor(color string) (bool, string) {
	if hexColorRe.MatchString(color) {
		return true, ""
	}
	return false, fmt.Sprintf("%q is not a HEX color", color)
}

// ValidSlug reports whether slug matches the allowed [-a-zA-Z0-9_]+ pattern.
func ValidSlug(slug string) (bool, string) {
	if slugRe.MatchString(slug) {
		return true, ""
	}
	return false, fmt.Sprintf("%q is not a valid slug", slug)
}

// ValidUsername rejects reserved usernames.
func ValidUsername(username string) (bool, string) {
	for _, reserved := range reservedUsernames {
		if username == reserved {
			return false, fmt.Sprintf("username %q is not allowed", username)
		}
	}
	return true, ""
}

// IngredientLineInput is one (ingredient, amount) entry of a recipe payload.
type IngredientLineInput struct {
	IngredientID uuid.UUID `json:"id" binding:"required"`
	Amount       int       `json:"amount"`
}

// RecipePayload is a candidate recipe as submitted by a client, after the
// image envelope has been decoded by the image service.
type RecipePayload struct {
	Name        string
	Text        string
	CookingTime int
	ImageURL    string
	TagIDs      []uuid.UUID
	Ingredients []IngredientLineInput
}

// ValidatedRecipe is a normalized payload ready for persistence: referenced
// catalog rows are resolved, lines keep their input order.
type ValidatedRecipe struct {
	Tags  []models.Tag
	Lines []models.IngredientLine
}

// RecipeValidator checks a recipe payload against the business rules. All
// rule violations are collected into one ValidationError; only a missing
// catalog reference short-circuits, as NotFound.
type RecipeValidator struct {
	db             *gorm.DB
	maxCookingTime int
}

func NewRecipeValidator(db *gorm.DB, maxCookingTime int) *RecipeValidator {
	return &RecipeValidator{db: db, maxCookingTime: maxCookingTime}
}

// Validate resolves catalog references and evaluates every rule, returning
// either a normalized payload or the collected violations. No writes happen
// here.
func (v *RecipeValidator) Validate(ctx context.Context, payload *RecipePayload) (*ValidatedRecipe, error) {
	tags, err := v.resolveTags(ctx, payload.TagIDs)
	if err != nil {
		return nil, err
	}
	ingredients, err := v.resolveIngredients(ctx, payload.Ingredients)
	if err != nil {
		return nil, err
	}

	verr := NewValidationError()

	if len(payload.Ingredients) == 0 {
		verr.Add("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]bool, len(payload.Ingredients))
	for _, line := range payload.Ingredients {
		if line.Amount < 1 || line.Amount > 32767 {
			verr.Add("ingredients", fmt.Sprintf("amount for ingredient %s must be between 1 and 32767", line.IngredientID))
		}
		if seen[line.IngredientID] {
			verr.Add("ingredients", fmt.Sprintf("ingredient %s is listed more than once", line.IngredientID))
		}
		seen[line.IngredientID] = true
	}

	seenTags := make(map[uuid.UUID]bool, len(payload.TagIDs))
	for _, id := range payload.TagIDs {
		if seenTags[id] {
			verr.Add("tags", "the same tag cannot be applied twice")
			break
		}
		seenTags[id] = true
	}

	if payload.CookingTime < 1 || payload.CookingTime > v.maxCookingTime {
		verr.Add("cooking_time", fmt.Sprintf("cooking time must be between 1 and %d minutes", v.maxCookingTime))
	}

	if verr.HasErrors() {
		return nil, verr
	}

	lines := make([]models.IngredientLine, 0, len(payload.Ingredients))
	for _, line := range payload.Ingredients {
		lines = append(lines, models.IngredientLine{
			IngredientID: line.IngredientID,
			Ingredient:   ingredients[line.IngredientID],
			Amount:       line.Amount,
		})
	}

	return &ValidatedRecipe{Tags: tags, Lines: lines}, nil
}

func (v *RecipeValidator) resolveTags(ctx context.Context, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := v.db.WithContext(ctx).Where("id IN ?", dedupe(ids)).Find(&tags).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Tag, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag
	}
	resolved := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		resolved = append(resolved, tag)
	}
	return resolved, nil
}

func (v *RecipeValidator) resolveIngredients(ctx context.Context, lines []IngredientLineInput) (map[uuid.UUID]models.Ingredient, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.IngredientID)
	}
	var ingredients []models.Ingredient
	if err := v.db.WithContext(ctx).Where("id IN ?", dedupe(ids)).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
		}
	}
	return byID, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
