package api_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetRecipe(t *testing.T) {
	router, db := setupTestServer(t)
	token, userID := registerUser(t, router)

	tag := seedTag(t, db, "breakfast")
	eggs := seedIngredient(t, db, "eggs", "pcs")

	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"name":         "Omelette",
		"text":         "Whisk and fry",
		"cooking_time": 10,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]any{
			{"id": eggs.ID.String(), "amount": 3},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decodeJSON(t, w)
	assert.Equal(t, "Omelette", created["name"])
	assert.Equal(t, false, created["is_favorited"])

	author := created["author"].(map[string]any)
	assert.Equal(t, userID.String(), author["id"])

	ingredients := created["ingredients"].([]any)
	require.Len(t, ingredients, 1)
	row := ingredients[0].(map[string]any)
	assert.Equal(t, "eggs", row["name"])
	assert.Equal(t, "pcs", row["measurement_unit"])
	assert.Equal(t, float64(3), row["amount"])

	// anyone can read it back
	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes/"+created["id"].(string), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Omelette", decodeJSON(t, w)["name"])
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	router, _ := setupTestServer(t)

	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeValidationError(t *testing.T) {
	router, db := setupTestServer(t)
	token, _ := registerUser(t, router)

	tag := seedTag(t, db, "dinner")
	rice := seedIngredient(t, db, "rice", "g")

	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"name":         "Rice",
		"text":         "Boil",
		"cooking_time": 5000,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]any{
			{"id": rice.ID.String(), "amount": 100},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "cooking_time", decodeJSON(t, w)["field"])
}

func TestDuplicateTextConflicts(t *testing.T) {
	router, db := setupTestServer(t)
	token, _ := registerUser(t, router)

	tag := seedTag(t, db, "snack")
	nuts := seedIngredient(t, db, "nuts", "g")

	payload := map[string]any{
		"name":         "Mix",
		"text":         "Shake well",
		"cooking_time": 2,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]any{
			{"id": nuts.ID.String(), "amount": 30},
		},
	}
	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code)

	payload["name"] = "Another mix"
	w = performRequest(t, router, http.MethodPost, "/api/v1/recipes", token, payload)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetRecipeNotFound(t *testing.T) {
	router, _ := setupTestServer(t)

	w := performRequest(t, router, http.MethodGet, "/api/v1/recipes/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateRecipeForbidden(t *testing.T) {
	router, db := setupTestServer(t)
	authorToken, _ := registerUser(t, router)
	otherToken, _ := registerUser(t, router)

	recipeID := createRecipe(t, router, db, authorToken, "Goulash", 500)
	tag := seedTag(t, db, "stew")
	beef := seedIngredient(t, db, "beef", "g")

	w := performRequest(t, router, http.MethodPatch, "/api/v1/recipes/"+recipeID.String(), otherToken, map[string]any{
		"name":         "Stolen",
		"text":         "Hijacked",
		"cooking_time": 60,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]any{
			{"id": beef.ID.String(), "amount": 500},
		},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	router, db := setupTestServer(t)
	token, _ := registerUser(t, router)
	recipeID := createRecipe(t, router, db, token, "Kharcho", 300)

	w := performRequest(t, router, http.MethodDelete, "/api/v1/recipes/"+recipeID.String(), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes/"+recipeID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteLifecycle(t *testing.T) {
	router, db := setupTestServer(t)
	authorToken, _ := registerUser(t, router)
	fanToken, _ := registerUser(t, router)

	recipeID := createRecipe(t, router, db, authorToken, "Borscht", 400)
	path := "/api/v1/recipes/" + recipeID.String() + "/favorite"

	w := performRequest(t, router, http.MethodPost, path, fanToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Borscht", decodeJSON(t, w)["name"])

	w = performRequest(t, router, http.MethodPost, path, fanToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = performRequest(t, router, http.MethodDelete, path, fanToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performRequest(t, router, http.MethodDelete, path, fanToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnonymousUserScopedFiltersAreNoOps(t *testing.T) {
	router, db := setupTestServer(t)
	token, _ := registerUser(t, router)
	createRecipe(t, router, db, token, "Shchi", 150)
	createRecipe(t, router, db, token, "Ukha", 250)

	w := performRequest(t, router, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeJSON(t, w)["count"])

	// the flag is ignored without authentication
	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeJSON(t, w)["count"])
}

func TestListRecipesFavoritedFilter(t *testing.T) {
	router, db := setupTestServer(t)
	authorToken, _ := registerUser(t, router)
	fanToken, _ := registerUser(t, router)

	first := createRecipe(t, router, db, authorToken, "Blini", 100)
	createRecipe(t, router, db, authorToken, "Syrniki", 200)

	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes/"+first.String()+"/favorite", fanToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes?is_favorited=1", fanToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeJSON(t, w)
	require.Equal(t, float64(1), body["count"])
	recipe := body["recipes"].([]any)[0].(map[string]any)
	assert.Equal(t, first.String(), recipe["id"])
	assert.Equal(t, true, recipe["is_favorited"])
}

func TestDownloadShoppingCartText(t *testing.T) {
	router, db := setupTestServer(t)
	authorToken, _ := registerUser(t, router)
	shopperToken, _ := registerUser(t, router)

	recipeID := createRecipe(t, router, db, authorToken, "Plov", 250)

	w := performRequest(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=txt", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Buy at the store:\n", w.Body.String())

	w = performRequest(t, router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/shopping_cart", shopperToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart?format=txt", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shopping_list.txt")
	assert.Equal(t, "Buy at the store:\ningredient-Plov (g) - 250\n", w.Body.String())
}

func TestDownloadShoppingCartPDF(t *testing.T) {
	router, db := setupTestServer(t)
	authorToken, _ := registerUser(t, router)
	shopperToken, _ := registerUser(t, router)

	recipeID := createRecipe(t, router, db, authorToken, "Lagman", 300)
	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes/"+recipeID.String()+"/shopping_cart", shopperToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, router, http.MethodGet, "/api/v1/recipes/download_shopping_cart", shopperToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}
