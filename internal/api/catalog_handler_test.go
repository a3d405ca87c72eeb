package api_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTagsEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	seedTag(t, db, "breakfast")
	seedTag(t, db, "dinner")

	w := performRequest(t, router, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0]["name"])
}

func TestGetTagEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	tag := seedTag(t, db, "lunch")

	w := performRequest(t, router, http.MethodGet, "/api/v1/tags/"+tag.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lunch", decodeJSON(t, w)["name"])

	w = performRequest(t, router, http.MethodGet, "/api/v1/tags/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListIngredientsEndpoint(t *testing.T) {
	router, db := setupTestServer(t)
	seedIngredient(t, db, "tomato", "pcs")
	seedIngredient(t, db, "tomato paste", "g")
	seedIngredient(t, db, "potato", "pcs")

	w := performRequest(t, router, http.MethodGet, "/api/v1/ingredients?name_startswith=tom", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	assert.Len(t, ingredients, 2)

	w = performRequest(t, router, http.MethodGet, "/api/v1/ingredients?name_contains=pot", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 1)
	assert.Equal(t, "potato", ingredients[0]["name"])
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := performRequest(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeJSON(t, w)["status"])
}
