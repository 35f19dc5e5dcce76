package service_test

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return &ingredient
}

func createTestTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", slug, err)
	}
	return &tag
}

// createTestRecipe persists a valid recipe through the service so tags and
// lines go through the same path production writes use.
func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines map[*models.Ingredient]int) *models.Recipe {
	t.Helper()
	recipes := service.NewRecipeService(db, service.NewRecipeValidator(db, 720))

	payload := &service.RecipePayload{
		Name:        name,
		Text:        "Stir and serve.",
		CookingTime: 30,
		ImageURL:    "/media/recipe-images/test.jpg",
	}
	for _, tag := range tags {
		payload.TagIDs = append(payload.TagIDs, tag.ID)
	}
	for ingredient, amount := range lines {
		payload.Ingredients = append(payload.Ingredients, service.IngredientLineInput{
			IngredientID: ingredient.ID,
			Amount:       amount,
		})
	}

	recipe, err := recipes.Create(context.Background(), author.ID, payload)
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}

func setupServiceTest(t *testing.T) *gorm.DB {
	t.Helper()
	return testhelpers.SetupTestDatabase(t)
}
