package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grunsho/contador-calorias/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.Meal{},
		&models.MealFoodItem{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func createTestFood(t *testing.T, db *gorm.DB, name string, portionSize, calories string) *models.FoodItem {
	t.Helper()

	item := models.FoodItem{
		Name:        name,
		PortionSize: decimal.RequireFromString(portionSize),
		PortionUnit: "g",
		Calories:    decimal.RequireFromString(calories),
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create test food item: %v", err)
	}
	return &item
}
