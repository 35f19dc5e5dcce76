package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

// setupAPITest wires the full HTTP surface against a fresh database, the
// same way main does, minus redis and S3.
func setupAPITest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)

	authSvc := service.NewAuthService(db, "test-secret")
	catalogSvc := service.NewCatalogService(db, nil)
	validator := service.NewRecipeValidator(db, 720)
	recipeSvc := service.NewRecipeService(db, validator)
	relationSvc := service.NewRelationService(db)
	shoppingListSvc := service.NewShoppingListService(db)
	followSvc := service.NewFollowService(db)
	imageSvc := service.NewImageService(nil, t.TempDir(), "/media")

	engine := router.SetupRouter(router.Options{
		AuthHandler:    api.NewAuthHandler(authSvc),
		CatalogHandler: api.NewCatalogHandler(catalogSvc),
		RecipeHandler:  api.NewRecipeHandler(recipeSvc, relationSvc, shoppingListSvc, imageSvc, authSvc),
		FollowHandler:  api.NewFollowHandler(followSvc, authSvc),
	})
	return engine, db
}

func performRequest(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()

	w := performRequest(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register failed: %s", w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

func seedTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func recipeBody(tag *models.Tag, lines ...gin.H) gin.H {
	body := gin.H{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 25,
		"ingredients":  lines,
	}
	if tag != nil {
		body["tags"] = []string{tag.ID.String()}
	}
	return body
}

func ingredientLine(ingredient *models.Ingredient, amount int) gin.H {
	return gin.H{"id": ingredient.ID.String(), "amount": amount}
}

func recipePath(format string, args ...interface{}) string {
	return "/api/v1/recipes" + fmt.Sprintf(format, args...)
}
