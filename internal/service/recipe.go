package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
	"github.com/platebook/backend/internal/types"
)

// RecipeFilter holds the AND-composable listing predicates. FavoritedBy and
// InCartOf are nil for anonymous callers, which turns those predicates into
// no-ops so anonymous browsing keeps working.
type RecipeFilter struct {
	TagSlugs    []string
	AuthorID    *uuid.UUID
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

// RecipeService handles recipe CRUD and listing.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns recipes matching every given predicate, newest first.
func (s *RecipeService) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("created_at DESC")

	if len(filter.TagSlugs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		q = q.Where("recipes.id IN (?)", tagged)
	}

	if filter.AuthorID != nil {
		q = q.Where("author_id = ?", *filter.AuthorID)
	}

	if filter.FavoritedBy != nil {
		favorited := s.db.Table("favorites").
			Select("recipe_id").
			Where("user_id = ?", *filter.FavoritedBy)
		q = q.Where("recipes.id IN (?)", favorited)
	}

	if filter.InCartOf != nil {
		inCart := s.db.Table("cart_items").
			Select("recipe_id").
			Where("user_id = ?", *filter.InCartOf)
		q = q.Where("recipes.id IN (?)", inCart)
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// ListByAuthor returns an author's recipes, optionally capped, newest first.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	q := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *RecipeService) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// Create validates the submission and writes the recipe with its tag and
// ingredient associations in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if err := s.checkUniqueText(ctx, authorID, req.Text, uuid.Nil); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.setAssociations(tx, &recipe, req)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update rewrites the recipe and replaces its associations wholesale. Only
// the author may update; a partial replacement is never observable because
// the whole edit runs in one transaction.
func (s *RecipeService) Update(ctx context.Context, recipeID, callerID uuid.UUID, req *types.RecipeRequest, imageURL string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrForbidden
	}

	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	if err := s.checkUniqueText(ctx, callerID, req.Text, recipeID); err != nil {
		return nil, err
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	if imageURL != "" {
		recipe.ImageURL = imageURL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return s.setAssociations(tx, &recipe, req)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Delete removes the recipe and all rows referencing it.
func (s *RecipeService) Delete(ctx context.Context, recipeID, callerID uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if recipe.AuthorID != callerID {
		return ErrForbidden
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

func (s *RecipeService) setAssociations(tx *gorm.DB, recipe *models.Recipe, req *types.RecipeRequest) error {
	var tags []models.Tag
	if err := tx.Where("id IN ?", req.Tags).Find(&tags).Error; err != nil {
		return err
	}
	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}

	rows := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		})
	}
	return tx.Create(&rows).Error
}

// validate applies the field-scoped submission rules: cooking time bounds,
// non-empty duplicate-free tag list, duplicate-free ingredient list with
// bounded amounts, and existence of every referenced tag and ingredient.
func (s *RecipeService) validate(ctx context.Context, req *types.RecipeRequest) error {
	if req.CookingTime < models.MinCookingTime {
		return invalid("cooking_time", "must be at least %d minute", models.MinCookingTime)
	}
	if req.CookingTime > models.MaxCookingTime {
		return invalid("cooking_time", "must be at most %d minutes", models.MaxCookingTime)
	}

	if len(req.Tags) == 0 {
		return invalid("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]bool, len(req.Tags))
	for _, id := range req.Tags {
		if seenTags[id] {
			return invalid("tags", "tags must be unique")
		}
		seenTags[id] = true
	}

	if len(req.Ingredients) == 0 {
		return invalid("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]bool, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if seenIngredients[ing.ID] {
			return invalid("ingredients", "ingredients must be unique")
		}
		seenIngredients[ing.ID] = true

		if ing.Amount < models.MinIngredientAmount {
			return invalid("ingredients", "amount must be at least %d", models.MinIngredientAmount)
		}
		if ing.Amount > models.MaxIngredientAmount {
			return invalid("ingredients", "amount must be at most %d", models.MaxIngredientAmount)
		}
	}

	var tagCount int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", req.Tags).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount != int64(len(req.Tags)) {
		return invalid("tags", "tag does not exist")
	}

	ids := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ids = append(ids, ing.ID)
	}
	var ingredientCount int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if ingredientCount != int64(len(ids)) {
		return invalid("ingredients", "ingredient does not exist")
	}

	return nil
}

// checkUniqueText enforces the (author, text) uniqueness invariant ahead of
// the index so the common case reports Conflict without a failed insert.
func (s *RecipeService) checkUniqueText(ctx context.Context, authorID uuid.UUID, text string, exclude uuid.UUID) error {
	q := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("author_id = ? AND text = ?", authorID, text)
	if exclude != uuid.Nil {
		q = q.Where("id <> ?", exclude)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return nil
}
