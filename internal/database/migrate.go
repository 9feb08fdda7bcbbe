package database

import (
	"fmt"

	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema of every persisted model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Tapa{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("Database schema migrated")
	return nil
}

// demoMenu is listed in display order per category
var demoMenu = []models.Tapa{
	{Category: models.CategoryMain, Name: "Patatas bravas", Price: 550, Description: "Fried potatoes with spicy tomato sauce and aioli"},
	{Category: models.CategoryMain, Name: "Tortilla española", Price: 600, Description: "Potato and onion omelette"},
	{Category: models.CategoryMain, Name: "Gambas al ajillo", Price: 950, Description: "Prawns sizzled in garlic and chili oil"},
	{Category: models.CategorySide, Name: "Pan con tomate", Price: 350, Description: "Toasted bread rubbed with tomato and olive oil"},
	{Category: models.CategorySide, Name: "Aceitunas", Price: 300, Description: "Marinated olives"},
}

// SeedTapas fills an empty tapas table with a demo menu and reports whether it did
func SeedTapas(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Unscoped().Model(&models.Tapa{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count tapas: %w", err)
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return false, nil
	}

	log.Info("Database is empty, seeding initial data")
	ranks := make(map[models.Category]int, len(models.Categories))
	tapas := make([]models.Tapa, 0, len(demoMenu))
	for _, tapa := range demoMenu {
		ranks[tapa.Category]++
		tapa.SortOrder = ranks[tapa.Category]
		tapas = append(tapas, tapa)
	}

	if err := db.Create(&tapas).Error; err != nil {
		return false, fmt.Errorf("seed tapas: %w", err)
	}
	log.WithField("count", len(tapas)).Info("Database seeded successfully")
	return true, nil
}
