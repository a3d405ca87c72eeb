package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIngredientsNameFilters(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	catalog := NewCatalogService(db)

	createTestIngredient(t, db, "Tomato", "pcs")
	createTestIngredient(t, db, "tomato paste", "g")
	createTestIngredient(t, db, "potato", "pcs")

	all, err := catalog.ListIngredients(ctx, IngredientFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	prefix, err := catalog.ListIngredients(ctx, IngredientFilter{NameStartsWith: "tom"})
	require.NoError(t, err)
	require.Len(t, prefix, 2)
	assert.Equal(t, "Tomato", prefix[0].Name)
	assert.Equal(t, "tomato paste", prefix[1].Name)

	substring, err := catalog.ListIngredients(ctx, IngredientFilter{NameContains: "mato"})
	require.NoError(t, err)
	assert.Len(t, substring, 2)

	both, err := catalog.ListIngredients(ctx, IngredientFilter{NameStartsWith: "po", NameContains: "tato"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "potato", both[0].Name)
}

func TestListTagsOrdered(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewCatalogService(db)

	createTestTag(t, db, "zakuski")
	createTestTag(t, db, "breakfast")

	tags, err := catalog.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "breakfast", tags[0].Name)
	assert.Equal(t, "zakuski", tags[1].Name)
}

func TestGetTagAndIngredientNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	catalog := NewCatalogService(db)

	_, err := catalog.GetTag(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = catalog.GetIngredient(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
