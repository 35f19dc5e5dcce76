package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type FollowHandler struct {
	follows   *service.FollowService
	validator middleware.TokenValidator
}

func NewFollowHandler(follows *service.FollowService, validator middleware.TokenValidator) *FollowHandler {
	return &FollowHandler{follows: follows, validator: validator}
}

func (h *FollowHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users", middleware.AuthMiddleware(h.validator))
	{
		users.GET("/subscriptions", h.Subscriptions)
		users.POST("/:id/subscribe", h.Subscribe)
		users.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *FollowHandler) Subscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	follow, err := h.follows.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"author": newUserView(follow.Author)})
}

func (h *FollowHandler) Unsubscribe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.follows.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Subscriptions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	recipesLimit := 0
	if v := c.Query("recipes_limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			recipesLimit = parsed
		}
	}

	subscriptions, err := h.follows.Subscriptions(c.Request.Context(), userID, recipesLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	type subscriptionView struct {
		Author       UserView            `json:"author"`
		Recipes      []CompactRecipeView `json:"recipes"`
		RecipesCount int64               `json:"recipes_count"`
	}
	views := make([]subscriptionView, 0, len(subscriptions))
	for _, sub := range subscriptions {
		recipes := make([]CompactRecipeView, 0, len(sub.Recipes))
		for i := range sub.Recipes {
			recipes = append(recipes, newCompactRecipeView(&sub.Recipes[i]))
		}
		views = append(views, subscriptionView{
			Author:       newUserView(sub.Author),
			Recipes:      recipes,
			RecipesCount: sub.RecipesCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}
