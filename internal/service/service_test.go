package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/database"
	"github.com/platebook/backend/internal/models"
	"github.com/platebook/backend/internal/types"
)

var userSeq int

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open db")
	require.NoError(t, database.Migrate(db), "failed to migrate")
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &models.User{
		Username:     fmt.Sprintf("cook%d", userSeq),
		Email:        fmt.Sprintf("cook%d@example.com", userSeq),
		FirstName:    "Test",
		LastName:     "Cook",
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: name, Color: "#49b64e"}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func recipeRequest(name, text string, tags []uuid.UUID, ingredients ...types.RecipeIngredientInput) *types.RecipeRequest {
	return &types.RecipeRequest{
		Name:        name,
		Text:        text,
		CookingTime: 30,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string) *models.Recipe {
	t.Helper()
	tag := createTestTag(t, db, "tag-"+name)
	ingredient := createTestIngredient(t, db, "ingredient-"+name, "g")
	recipes := NewRecipeService(db)
	recipe, err := recipes.Create(context.Background(), author.ID,
		recipeRequest(name, "Steps for "+name, []uuid.UUID{tag.ID},
			types.RecipeIngredientInput{ID: ingredient.ID, Amount: 100}),
		"")
	require.NoError(t, err)
	return recipe
}
