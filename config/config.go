package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/grunsho/contador-calorias/models"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from the environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.AutoMigrate(
		&models.User{},
		&models.FoodItem{},
		&models.Meal{},
		&models.MealFoodItem{},
	); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// SeedFoodItems inserts a handful of global (unowned) catalog entries the
// first time the application starts against an empty database. These are the
// only non-custom items; everything created through the API belongs to a user.
func SeedFoodItems(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.FoodItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	d := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	seed := []models.FoodItem{
		{Name: "Banana", PortionSize: d("100"), PortionUnit: "g", Calories: d("89"), Proteins: d("1.10"), Fats: d("0.30"), Carbs: d("22.80")},
		{Name: "White Rice (cooked)", PortionSize: d("100"), PortionUnit: "g", Calories: d("130"), Proteins: d("2.70"), Fats: d("0.30"), Carbs: d("28.20")},
		{Name: "Chicken Breast (cooked)", PortionSize: d("100"), PortionUnit: "g", Calories: d("165"), Proteins: d("31.00"), Fats: d("3.60"), Carbs: d("0")},
		{Name: "Whole Egg", PortionSize: d("100"), PortionUnit: "g", Calories: d("155"), Proteins: d("13.00"), Fats: d("11.00"), Carbs: d("1.10")},
		{Name: "Whole Milk", PortionSize: d("100"), PortionUnit: "ml", Calories: d("61"), Proteins: d("3.20"), Fats: d("3.30"), Carbs: d("4.80")},
		{Name: "Apple", PortionSize: d("100"), PortionUnit: "g", Calories: d("52"), Proteins: d("0.30"), Fats: d("0.20"), Carbs: d("13.80")},
	}
	return db.Create(&seed).Error
}
