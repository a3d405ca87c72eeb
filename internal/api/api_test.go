package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platebook/backend/config"
	"github.com/platebook/backend/internal/database"
	"github.com/platebook/backend/internal/models"
	"github.com/platebook/backend/internal/server"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open db")
	require.NoError(t, database.Migrate(db), "failed to migrate")

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		BaseURL:    "http://localhost:8080",
		ServerHost: "localhost",
		ServerPort: "0",
	}
	srv := server.New(cfg, db, nil, nil, zap.NewNop())
	return srv.Router(), db
}

func performRequest(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
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
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "invalid JSON body: %s", w.Body.String())
	return out
}

var apiUserSeq int

// registerUser creates an account through the API and returns its token and
// id, the way a client would obtain them.
func registerUser(t *testing.T, router *gin.Engine) (string, uuid.UUID) {
	t.Helper()
	apiUserSeq++
	w := performRequest(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"username":   fmt.Sprintf("user%d", apiUserSeq),
		"email":      fmt.Sprintf("user%d@example.com", apiUserSeq),
		"first_name": "Test",
		"last_name":  "User",
		"password":   "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeJSON(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, err := uuid.Parse(user["id"].(string))
	require.NoError(t, err)
	return token, id
}

func seedTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: name, Color: "#49b64e"}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func seedIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// createRecipe posts a minimal valid recipe and returns its id.
func createRecipe(t *testing.T, router *gin.Engine, db *gorm.DB, token, name string, amount int) uuid.UUID {
	t.Helper()
	tag := seedTag(t, db, "tag-"+name)
	ingredient := seedIngredient(t, db, "ingredient-"+name, "g")

	w := performRequest(t, router, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"name":         name,
		"text":         "Steps for " + name,
		"cooking_time": 25,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]any{
			{"id": ingredient.ID.String(), "amount": amount},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, err := uuid.Parse(decodeJSON(t, w)["id"].(string))
	require.NoError(t, err)
	return id
}
