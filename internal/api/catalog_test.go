package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogEndpoints(t *testing.T) {
	engine, db := setupAPITest(t)
	flour := seedIngredient(t, db, "flour", "g")
	seedIngredient(t, db, "sugar", "g")
	breakfast := seedTag(t, db, "Breakfast", "#AFB83B", "breakfast")

	w := performRequest(t, engine, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []struct {
		Slug  string `json:"slug"`
		Color string `json:"color"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "#AFB83B", tags[0].Color)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/tags/"+breakfast.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/ingredients?name=fl", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "flour", ingredients[0].Name)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/ingredients/"+flour.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performRequest(t, engine, http.MethodGet, "/api/v1/ingredients/not-a-uuid", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
