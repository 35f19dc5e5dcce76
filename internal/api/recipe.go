package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type RecipeHandler struct {
	recipes      *service.RecipeService
	relations    *service.RelationService
	shoppingList *service.ShoppingListService
	images       *service.ImageService
	validator    middleware.TokenValidator
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	relations *service.RelationService,
	shoppingList *service.ShoppingListService,
	images *service.ImageService,
	validator middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		relations:    relations,
		shoppingList: shoppingList,
		images:       images,
		validator:    validator,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.validator), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.validator), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuth(h.validator), h.GetRecipe)
		recipes.POST("", middleware.AuthMiddleware(h.validator), h.CreateRecipe)
		recipes.PUT("/:id", middleware.AuthMiddleware(h.validator), h.UpdateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.validator), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.validator), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.validator), h.addRelation(models.KindFavorite))
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.validator), h.removeRelation(models.KindFavorite))
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.validator), h.addRelation(models.KindShoppingCart))
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.validator), h.removeRelation(models.KindShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}

	viewerID := viewer(c)
	if viewerID != nil {
		if c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true" {
			filter.FavoritedBy = viewerID
		}
		if c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true" {
			filter.InCartOf = viewerID
		}
	}

	limit, page := pagination(c)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		ids = append(ids, r.ID)
	}
	flags, err := h.recipes.FlagsFor(c.Request.Context(), viewerID, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		views = append(views, newRecipeView(&recipes[i], flags[recipes[i].ID]))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID := viewer(c)
	flags, err := h.recipes.FlagsFor(c.Request.Context(), viewerID, []uuid.UUID{id})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeView(recipe, flags[id]))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.toPayload(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	flags, err := h.recipes.FlagsFor(c.Request.Context(), &userID, []uuid.UUID{recipe.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeView(recipe, flags[recipe.ID]))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.toPayload(c, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, payload)
	if err != nil {
		respondError(c, err)
		return
	}

	flags, err := h.recipes.FlagsFor(c.Request.Context(), &userID, []uuid.UUID{recipe.ID})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeView(recipe, flags[recipe.ID]))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addRelation(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		recipe, err := h.relations.Add(c.Request.Context(), kind, userID, recipeID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, newCompactRecipeView(recipe))
	}
}

func (h *RecipeHandler) removeRelation(kind models.RelationKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		recipeID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
			return
		}

		if err := h.relations.Remove(c.Request.Context(), kind, userID, recipeID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	items, err := h.shoppingList.Generate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", service.ShoppingListFileName))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(h.shoppingList.Render(items)))
}

// toPayload decodes the image envelope and shapes the request for the
// service layer.
func (h *RecipeHandler) toPayload(c *gin.Context, req *RecipeRequest) (*service.RecipePayload, error) {
	imageURL, err := h.images.StoreBase64(c.Request.Context(), req.Image)
	if err != nil {
		return nil, err
	}
	return &service.RecipePayload{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	}, nil
}

func viewer(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func pagination(c *gin.Context) (limit, page int) {
	limit = 20
	page = 1
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return limit, page
}
