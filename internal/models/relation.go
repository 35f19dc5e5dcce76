package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RelationKind discriminates the two user-recipe list memberships stored in
// the shared relation table.
type RelationKind string

const (
	KindFavorite     RelationKind = "favorite"
	KindShoppingCart RelationKind = "shopping_cart"
)

// UserRecipeRelation is a (user, recipe) membership record of a given kind.
// A user holds each recipe at most once per kind.
type UserRecipeRelation struct {
	ID       uuid.UUID    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID   uuid.UUID    `gorm:"type:varchar(36);not null;uniqueIndex:idx_relation_user_recipe_kind" json:"user_id"`
	RecipeID uuid.UUID    `gorm:"type:varchar(36);not null;uniqueIndex:idx_relation_user_recipe_kind;index" json:"recipe_id"`
	Kind     RelationKind `gorm:"size:20;not null;uniqueIndex:idx_relation_user_recipe_kind" json:"kind"`
	Recipe   Recipe       `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *UserRecipeRelation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (UserRecipeRelation) TableName() string {
	return "user_recipe_relations"
}
