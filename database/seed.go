package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/stocklane/fulfillment-api/models"
)

type seedProduct struct {
	name       string
	quantity   int
	categories []string
}

var seedCategories = []string{
	"Electronics", "Audio", "Sports", "Footwear",
	"Kitchen", "Appliances", "Computers", "Fitness",
}

var seedProducts = []seedProduct{
	{name: "Wireless Headphones", quantity: 100, categories: []string{"Electronics", "Audio"}},
	{name: "Running Shoes", quantity: 50, categories: []string{"Sports", "Footwear"}},
	{name: "Coffee Maker", quantity: 25, categories: []string{"Kitchen", "Appliances"}},
	{name: "Laptop", quantity: 30, categories: []string{"Electronics", "Computers"}},
	{name: "Yoga Mat", quantity: 75, categories: []string{"Sports", "Fitness"}},
}

var seedUsers = []models.User{
	{Name: "Test User #1", Email: "test123@test123.com"},
	{Name: "Test User #2", Email: "test456@test456.com"},
}

// Seed loads the starter catalog and test users. Idempotent: rows are
// matched by their unique name/email.
func Seed(db *gorm.DB) error {
	byName := make(map[string]*models.Category, len(seedCategories))
	for _, name := range seedCategories {
		category := models.Category{Name: name}
		if err := db.FirstOrCreate(&category, models.Category{Name: name}).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
		byName[name] = &category
	}

	for _, sp := range seedProducts {
		product := models.Product{Name: sp.name, Quantity: sp.quantity}
		if err := db.Where(models.Product{Name: sp.name}).FirstOrCreate(&product).Error; err != nil {
			return fmt.Errorf("seed product %q: %w", sp.name, err)
		}
		var categories []models.Category
		for _, cn := range sp.categories {
			if c, ok := byName[cn]; ok {
				categories = append(categories, *c)
			}
		}
		if err := db.Model(&product).Association("Categories").Replace(categories); err != nil {
			return fmt.Errorf("seed product categories for %q: %w", sp.name, err)
		}
	}

	for _, su := range seedUsers {
		user := su
		if err := db.Where(models.User{Email: su.Email}).FirstOrCreate(&user).Error; err != nil {
			return fmt.Errorf("seed user %q: %w", su.Email, err)
		}
	}
	return nil
}
