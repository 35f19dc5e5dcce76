package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is the aggregate root: scalar fields plus the tag set and the
// ingredient lines. Tags and lines are always written together with the
// recipe row, never piecemeal.
type Recipe struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID    uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"-"`
	Author      User             `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author"`
	Name        string           `gorm:"size:200;not null" json:"name"`
	ImageURL    string           `gorm:"size:255" json:"image"`
	Text        string           `gorm:"type:text;not null" json:"text"`
	CookingTime int              `gorm:"not null" json:"cooking_time"`
	PubDate     time.Time        `gorm:"autoCreateTime;index" json:"pub_date"`
	Tags        []Tag            `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []IngredientLine `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IngredientLine binds a recipe to an ingredient with a quantity. An
// ingredient appears at most once per recipe; the composite unique index is
// the backstop for races the validator does not see.
type IngredientLine struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_line_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_line_recipe_ingredient" json:"id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1 AND amount <= 32767" json:"amount"`
}

func (l *IngredientLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (IngredientLine) TableName() string {
	return "ingredient_lines"
}
