package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations provisions the schema. Model order matters: referenced
// tables before referencing ones so foreign keys resolve.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running auto-migration (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.IngredientLine{},
		&models.UserRecipeRelation{},
	)
}
