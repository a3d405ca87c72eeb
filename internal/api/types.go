package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/platebook/backend/internal/models"
)

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
	Avatar       string    `json:"avatar,omitempty"`
}

func userResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.AvatarURL,
	}
}

type IngredientInRecipe struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID                uuid.UUID            `json:"id"`
	Tags              []models.Tag         `json:"tags"`
	Author            UserResponse         `json:"author"`
	Ingredients       []IngredientInRecipe `json:"ingredients"`
	IsFavorited       bool                 `json:"is_favorited"`
	IsInShoppingCart  bool                 `json:"is_in_shopping_cart"`
	Name              string               `json:"name"`
	Image             string               `json:"image"`
	Text              string               `json:"text"`
	CookingTime       int                  `json:"cooking_time"`
	CreatedAt         time.Time            `json:"created_at"`
}

func recipeResponse(r *models.Recipe, authorSubscribed, favorited, inCart bool) RecipeResponse {
	ingredients := make([]IngredientInRecipe, 0, len(r.Ingredients))
	for _, row := range r.Ingredients {
		item := IngredientInRecipe{
			ID:     row.IngredientID,
			Amount: row.Amount,
		}
		if row.Ingredient != nil {
			item.Name = row.Ingredient.Name
			item.MeasurementUnit = row.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	var author UserResponse
	if r.Author != nil {
		author = userResponse(r.Author, authorSubscribed)
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		CreatedAt:        r.CreatedAt,
	}
}

// ShortRecipeResponse is the compact shape returned by the relation
// endpoints and inside subscription listings.
type ShortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func shortRecipeResponse(r *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// SubscriptionResponse is an author plus a capped preview of their recipes.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}
