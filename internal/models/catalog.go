package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is catalog reference data: a name plus the unit it is measured
// in. The same name may appear once per measurement unit.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:50;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Tag labels recipes for filtering. Color is a HEX string, slug is the
// URL-safe unique handle.
type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:7;not null;default:'#3B0363'" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
