package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platebook/backend/internal/types"
)

func TestAggregateSumsSharedIngredients(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	recipes := NewRecipeService(db)
	cart := NewCartManager(db)
	shopping := NewShoppingListService(db)

	author := createTestUser(t, db)
	tag := createTestTag(t, db, "dinner")
	flour := createTestIngredient(t, db, "flour", "g")
	milk := createTestIngredient(t, db, "milk", "ml")

	pancakes, err := recipes.Create(ctx, author.ID,
		recipeRequest("Pancakes", "Mix and fry", []uuid.UUID{tag.ID},
			types.RecipeIngredientInput{ID: flour.ID, Amount: 200},
			types.RecipeIngredientInput{ID: milk.ID, Amount: 300}),
		"")
	require.NoError(t, err)

	bread, err := recipes.Create(ctx, author.ID,
		recipeRequest("Bread", "Knead and bake", []uuid.UUID{tag.ID},
			types.RecipeIngredientInput{ID: flour.ID, Amount: 500}),
		"")
	require.NoError(t, err)

	shopper := createTestUser(t, db)
	_, err = cart.Add(ctx, shopper.ID, pancakes.ID)
	require.NoError(t, err)
	_, err = cart.Add(ctx, shopper.ID, bread.ID)
	require.NoError(t, err)

	items, err := shopping.Aggregate(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// ordered by ingredient name
	assert.Equal(t, ShoppingItem{Name: "flour", Unit: "g", Amount: 700}, items[0])
	assert.Equal(t, ShoppingItem{Name: "milk", Unit: "ml", Amount: 300}, items[1])
}

func TestAggregateScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	cart := NewCartManager(db)
	shopping := NewShoppingListService(db)

	author := createTestUser(t, db)
	recipe := createTestRecipe(t, db, author, "Plov")

	other := createTestUser(t, db)
	_, err := cart.Add(ctx, other.ID, recipe.ID)
	require.NoError(t, err)

	items, err := shopping.Aggregate(ctx, createTestUser(t, db).ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
