package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecipeRequest is the recipe payload as it arrives on the wire; image is a
// base64/data-URL envelope.
type RecipeRequest struct {
	Name        string                        `json:"name" binding:"required,max=200"`
	Text        string                        `json:"text" binding:"required"`
	CookingTime int                           `json:"cooking_time"`
	Image       string                        `json:"image"`
	Tags        []uuid.UUID                   `json:"tags"`
	Ingredients []service.IngredientLineInput `json:"ingredients"`
}

type UserView struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type IngredientLineView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is the full recipe representation, flags computed for the
// requesting user.
type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []models.Tag         `json:"tags"`
	Author           UserView             `json:"author"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	PubDate          time.Time            `json:"pub_date"`
}

// CompactRecipeView is the short shape used in relation and follow
// responses.
type CompactRecipeView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newUserView(u models.User) UserView {
	return UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func newRecipeView(r *models.Recipe, flags service.RecipeFlags) RecipeView {
	lines := make([]IngredientLineView, 0, len(r.Ingredients))
	for _, line := range r.Ingredients {
		lines = append(lines, IngredientLineView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeView{
		ID:               r.ID,
		Tags:             tags,
		Author:           newUserView(r.Author),
		Ingredients:      lines,
		IsFavorited:      flags.IsFavorited,
		IsInShoppingCart: flags.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}

func newCompactRecipeView(r *models.Recipe) CompactRecipeView {
	return CompactRecipeView{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}
