package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// Category groups tapas on the menu; ordering is scoped to one category.
type Category string

const (
	// CategoryMain holds the primary dishes
	CategoryMain Category = "main"
	// CategorySide holds the secondary dishes
	CategorySide Category = "side"
)

// Categories lists every known category in display order
var Categories = []Category{CategoryMain, CategorySide}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c == CategoryMain || c == CategorySide
}

// ParseCategory converts a raw path or body value into a Category
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", NewValidationError("type", "must be one of: main, side")
	}
	return c, nil
}

// Tapa represents a menu item with its display properties and rank inside its category
type Tapa struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Category    Category       `gorm:"column:type;size:16;not null;index:idx_tapas_type_sort_order,priority:1" json:"type"`
	Name        string         `gorm:"size:100;not null" json:"name"`
	Price       int            `gorm:"not null;default:0" json:"price"`
	Description string         `gorm:"type:text" json:"desc"`
	Image       string         `gorm:"column:image;size:512" json:"img"`
	SortOrder   int            `gorm:"not null;default:0;index:idx_tapas_type_sort_order,priority:2" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName keeps the table name used by the admin front end
func (Tapa) TableName() string {
	return "tapas"
}

// TapaInput carries the editable fields of a tapa as sent in the "data" form field
type TapaInput struct {
	Category    Category `json:"type"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Description string   `json:"desc"`
}

// Validate checks the input before anything is written
func (in TapaInput) Validate() error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Category, validation.Required, validation.In(CategoryMain, CategorySide)),
		validation.Field(&in.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&in.Price, validation.Min(0)),
		validation.Field(&in.Description, validation.RuneLength(0, 1000)),
	)
	if err != nil {
		return NewValidationError("data", err.Error())
	}
	return nil
}
