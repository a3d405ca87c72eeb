package database

import (
	"gorm.io/gorm"

	"github.com/platebook/backend/internal/models"
)

// Migrate applies the schema for every persisted entity. Join and relation
// tables come last so their foreign keys resolve.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.CartItem{},
		&models.Subscription{},
		&models.ShortLink{},
	)
}
