package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/internal/models"
)

const (
	tagCacheKey = "catalog:tags"
	tagCacheTTL = 10 * time.Minute
)

// CatalogService serves the read-mostly ingredient and tag reference data.
// The tag list is small and hot, so it is kept in Redis when a client is
// configured; a nil cache disables caching.
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(db *gorm.DB, cache *redis.Client) *CatalogService {
	return &CatalogService{db: db, cache: cache}
}

// ListIngredients returns ingredients, optionally narrowed to names starting
// with prefix (case-insensitive, anchored at the start for autocomplete).
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(prefix)+"%")
	}
	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// GetIngredient retrieves an ingredient by ID.
func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("ingredient %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &ingredient, nil
}

// UpsertIngredient creates the ingredient identified by its natural key
// (name, measurement_unit) if it does not exist yet. Used by the seed
// importer, not exposed to end users.
func (s *CatalogService) UpsertIngredient(ctx context.Context, name, measurementUnit string) (*models.Ingredient, error) {
	ingredient := models.Ingredient{Name: name, MeasurementUnit: measurementUnit}
	err := s.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, measurementUnit).
		FirstOrCreate(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// ListTags returns all tags ordered by slug, reading through the cache.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, tagCacheKey).Bytes(); err == nil {
			var tags []models.Tag
			if err := json.Unmarshal(cached, &tags); err == nil {
				return tags, nil
			}
		}
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("slug").Find(&tags).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(tags); err == nil {
			if err := s.cache.Set(ctx, tagCacheKey, payload, tagCacheTTL).Err(); err != nil {
				log.Printf("tag cache set failed: %v", err)
			}
		}
	}
	return tags, nil
}

// GetTag retrieves a tag by ID.
func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &tag, nil
}

// UpsertTag creates or refreshes the tag identified by its slug. Color and
// slug are checked against their formats before touching the database.
func (s *CatalogService) UpsertTag(ctx context.Context, name, color, slug string) (*models.Tag, error) {
	verr := NewValidationError()
	if ok, msg := ValidHexColor(color); !ok {
		verr.Add("color", msg)
	}
	if ok, msg := ValidSlug(slug); !ok {
		verr.Add("slug", msg)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "color"}),
		}).
		Create(&tag).Error
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, tagCacheKey).Err(); err != nil {
			log.Printf("tag cache invalidation failed: %v", err)
		}
	}

	// The upsert path does not report the winning row's ID, so read it back.
	var stored models.Tag
	if err := s.db.WithContext(ctx).First(&stored, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
