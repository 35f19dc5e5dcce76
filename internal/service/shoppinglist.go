package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// ShoppingListFileName is the attachment name of the downloaded report.
const ShoppingListFileName = "shopping_list.txt"

const shoppingListLineFormat = "%s (%s) — %d"

// ShoppingListItem is one aggregated row of the report: an ingredient with
// its total amount summed across every recipe in the cart.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService merges ingredient quantities across all recipes in a
// user's shopping cart.
type ShoppingListService struct {
	db *gorm.DB
}

// NewShoppingListService creates a new ShoppingListService instance.
func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Generate resolves the user's cart, joins the ingredient lines of every
// carted recipe and sums amounts per ingredient. Grouping is by the
// ingredient row itself, not by recomputed name matches, so two lines of the
// same ingredient always merge. Rows come back ordered by name and unit so
// the same cart always produces the same report. An empty cart yields an
// empty slice.
func (s *ShoppingListService) Generate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("ingredient_lines").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_lines.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_lines.ingredient_id").
		Joins("JOIN user_recipe_relations ON user_recipe_relations.recipe_id = ingredient_lines.recipe_id").
		Where("user_recipe_relations.user_id = ? AND user_recipe_relations.kind = ?", userID, models.KindShoppingCart).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render formats the aggregated items as the plain-text report, one line per
// ingredient.
func (s *ShoppingListService) Render(items []ShoppingListItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf(shoppingListLineFormat, item.Name, item.MeasurementUnit, item.TotalAmount))
	}
	return strings.Join(lines, "\n")
}
