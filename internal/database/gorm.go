package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
)

// NewGorm opens the ORM session used by the services. TranslateError is on
// so unique violations surface as gorm.ErrDuplicatedKey regardless of the
// driver, which the services map to Conflict/AlreadyExists.
func NewGorm(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening gorm session: %w", err)
	}
	return db, nil
}
