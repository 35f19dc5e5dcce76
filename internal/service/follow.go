package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// FollowService manages user-to-author subscriptions.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a new FollowService instance.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// AuthorSubscription is one followed author with a slice of their recipes.
type AuthorSubscription struct {
	Author       models.User     `json:"author"`
	Recipes      []models.Recipe `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// Subscribe adds a follow from user to author. Self-follows and duplicates
// are rejected; a missing author is NotFound.
func (s *FollowService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.Follow, error) {
	if userID == authorID {
		return nil, ErrSelfFollow
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author %s: %w", authorID, ErrNotFound)
		}
		return nil, err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("already following %s: %w", author.Username, ErrAlreadyExists)
	}

	follow := models.Follow{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("already following %s: %w", author.Username, ErrAlreadyExists)
		}
		return nil, err
	}
	follow.Author = author
	return &follow, nil
}

// Unsubscribe removes the follow, reporting NotFound when absent.
func (s *FollowService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("not following %s: %w", authorID, ErrNotFound)
	}
	return nil
}

// Subscriptions lists the authors the user follows with their recipes.
// recipesLimit > 0 caps the recipes returned per author.
func (s *FollowService) Subscriptions(ctx context.Context, userID uuid.UUID, recipesLimit int) ([]AuthorSubscription, error) {
	var follows []models.Follow
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("user_id = ?", userID).
		Order("author_id").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}

	subscriptions := make([]AuthorSubscription, 0, len(follows))
	for _, follow := range follows {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Recipe{}).
			Where("author_id = ?", follow.AuthorID).
			Count(&count).Error; err != nil {
			return nil, err
		}

		query := s.db.WithContext(ctx).
			Where("author_id = ?", follow.AuthorID).
			Order("pub_date DESC").Order("name")
		if recipesLimit > 0 {
			query = query.Limit(recipesLimit)
		}
		var recipes []models.Recipe
		if err := query.Find(&recipes).Error; err != nil {
			return nil, err
		}

		subscriptions = append(subscriptions, AuthorSubscription{
			Author:       follow.Author,
			Recipes:      recipes,
			RecipesCount: count,
		})
	}
	return subscriptions, nil
}
