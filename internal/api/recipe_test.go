package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CookingTime int    `json:"cooking_time"`
	Author      struct {
		Username string `json:"username"`
	} `json:"author"`
	Tags []struct {
		Slug string `json:"slug"`
	} `json:"tags"`
	Ingredients []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Amount int    `json:"amount"`
	} `json:"ingredients"`
	IsFavorited      bool `json:"is_favorited"`
	IsInShoppingCart bool `json:"is_in_shopping_cart"`
}

func TestRecipeLifecycle(t *testing.T) {
	engine, db := setupAPITest(t)
	token := registerUser(t, engine, "chef_anna")
	flour := seedIngredient(t, db, "flour", "g")
	sugar := seedIngredient(t, db, "sugar", "g")
	breakfast := seedTag(t, db, "Breakfast", "#AFB83B", "breakfast")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), token,
		recipeBody(breakfast, ingredientLine(flour, 200), ingredientLine(sugar, 50)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Pancakes", created.Name)
	assert.Equal(t, "chef_anna", created.Author.Username)
	require.Len(t, created.Tags, 1)
	assert.Equal(t, "breakfast", created.Tags[0].Slug)
	assert.Len(t, created.Ingredients, 2)

	w = performRequest(t, engine, http.MethodGet, recipePath("/%s", created.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	update := recipeBody(breakfast, ingredientLine(flour, 150))
	update["name"] = "Crepes"
	w = performRequest(t, engine, http.MethodPatch, recipePath("/%s", created.ID), token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Crepes", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 150, updated.Ingredients[0].Amount)

	w = performRequest(t, engine, http.MethodDelete, recipePath("/%s", created.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(t, engine, http.MethodGet, recipePath("/%s", created.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeRequiresAuth(t *testing.T) {
	engine, db := setupAPITest(t)
	flour := seedIngredient(t, db, "flour", "g")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), "",
		recipeBody(nil, ingredientLine(flour, 200)))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeValidationErrorShape(t *testing.T) {
	engine, _ := setupAPITest(t)
	token := registerUser(t, engine, "chef_anna")

	body := recipeBody(nil)
	body["cooking_time"] = 0
	w := performRequest(t, engine, http.MethodPost, recipePath(""), token, body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "ingredients")
	assert.Contains(t, resp.Errors, "cooking_time")
}

func TestRecipeUpdateForbidden(t *testing.T) {
	engine, db := setupAPITest(t)
	author := registerUser(t, engine, "chef_anna")
	intruder := registerUser(t, engine, "chef_boris")
	flour := seedIngredient(t, db, "flour", "g")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), author,
		recipeBody(nil, ingredientLine(flour, 200)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(t, engine, http.MethodPatch, recipePath("/%s", created.ID), intruder,
		recipeBody(nil, ingredientLine(flour, 100)))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteEndpoints(t *testing.T) {
	engine, db := setupAPITest(t)
	author := registerUser(t, engine, "chef_anna")
	fan := registerUser(t, engine, "fan")
	flour := seedIngredient(t, db, "flour", "g")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), author,
		recipeBody(nil, ingredientLine(flour, 200)))
	require.Equal(t, http.StatusCreated, w.Code)

	var created recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = performRequest(t, engine, http.MethodPost, recipePath("/%s/favorite", created.ID), fan, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// A second add is a client error, not a silent no-op.
	w = performRequest(t, engine, http.MethodPost, recipePath("/%s/favorite", created.ID), fan, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// The flag follows the viewer, not the recipe.
	w = performRequest(t, engine, http.MethodGet, recipePath("/%s", created.ID), fan, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var viewed recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &viewed))
	assert.True(t, viewed.IsFavorited)
	assert.False(t, viewed.IsInShoppingCart)

	w = performRequest(t, engine, http.MethodGet, recipePath("/%s", created.ID), author, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &viewed))
	assert.False(t, viewed.IsFavorited)

	w = performRequest(t, engine, http.MethodDelete, recipePath("/%s/favorite", created.ID), fan, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(t, engine, http.MethodDelete, recipePath("/%s/favorite", created.ID), fan, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	engine, db := setupAPITest(t)
	author := registerUser(t, engine, "chef_anna")
	shopper := registerUser(t, engine, "shopper")
	flour := seedIngredient(t, db, "flour", "g")
	sugar := seedIngredient(t, db, "sugar", "g")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), author,
		recipeBody(nil, ingredientLine(flour, 200), ingredientLine(sugar, 50)))
	require.Equal(t, http.StatusCreated, w.Code)
	var pancakes recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pancakes))

	bread := recipeBody(nil, ingredientLine(flour, 100))
	bread["name"] = "Bread"
	w = performRequest(t, engine, http.MethodPost, recipePath(""), author, bread)
	require.Equal(t, http.StatusCreated, w.Code)
	var breadResp recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &breadResp))

	for _, id := range []string{pancakes.ID, breadResp.ID} {
		w = performRequest(t, engine, http.MethodPost, recipePath("/%s/shopping_cart", id), shopper, nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = performRequest(t, engine, http.MethodGet, recipePath("/download_shopping_cart"), shopper, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "flour (g) — 300\nsugar (g) — 50", w.Body.String())
}

func TestListRecipesFilters(t *testing.T) {
	engine, db := setupAPITest(t)
	author := registerUser(t, engine, "chef_anna")
	fan := registerUser(t, engine, "fan")
	flour := seedIngredient(t, db, "flour", "g")
	breakfast := seedTag(t, db, "Breakfast", "#AFB83B", "breakfast")
	seedTag(t, db, "Dinner", "#DB4035", "dinner")

	w := performRequest(t, engine, http.MethodPost, recipePath(""), author,
		recipeBody(breakfast, ingredientLine(flour, 200)))
	require.Equal(t, http.StatusCreated, w.Code)
	var tagged recipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tagged))

	untagged := recipeBody(nil, ingredientLine(flour, 100))
	untagged["name"] = "Bread"
	w = performRequest(t, engine, http.MethodPost, recipePath(""), author, untagged)
	require.Equal(t, http.StatusCreated, w.Code)

	var list struct {
		Recipes []recipeResponse `json:"recipes"`
	}

	w = performRequest(t, engine, http.MethodGet, recipePath("?tags=breakfast"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, tagged.ID, list.Recipes[0].ID)

	w = performRequest(t, engine, http.MethodGet, recipePath(""), "", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Recipes, 2)

	w = performRequest(t, engine, http.MethodPost, recipePath("/%s/favorite", tagged.ID), fan, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, engine, http.MethodGet, recipePath("?is_favorited=1"), fan, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, tagged.ID, list.Recipes[0].ID)
	assert.True(t, list.Recipes[0].IsFavorited)
}
