package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Meal slot types. A user logs at most one meal per slot per day.
const (
	MealTypeBreakfast      = "breakfast"
	MealTypeMidMorning     = "mid_morning"
	MealTypeLunch          = "lunch"
	MealTypeAfternoonSnack = "afternoon_snack"
	MealTypeDinner         = "dinner"
	MealTypeSnack          = "snack"
)

var mealTypes = map[string]bool{
	MealTypeBreakfast:      true,
	MealTypeMidMorning:     true,
	MealTypeLunch:          true,
	MealTypeAfternoonSnack: true,
	MealTypeDinner:         true,
	MealTypeSnack:          true,
}

func IsValidMealType(t string) bool {
	return mealTypes[t]
}

// One meal (a date + slot) belonging to a user. The (user, date, slot)
// triple is unique.
type Meal struct {
	gorm.Model
	UserID   uint      `gorm:"index:idx_meal_user_date_type,unique;not null"`
	User     User      `gorm:"constraint:OnDelete:CASCADE"`
	Date     time.Time `gorm:"type:date;index:idx_meal_user_date_type,unique;not null"`
	MealType string    `gorm:"type:varchar(20);index:idx_meal_user_date_type,unique;not null"`

	FoodItems []MealFoodItem `gorm:"foreignKey:MealID"`
}

// A quantity of one food item within a meal. At most one row per
// (meal, food item) pair; repeat additions update the quantity instead.
type MealFoodItem struct {
	gorm.Model
	MealID     uint     `gorm:"index:idx_meal_food_item,unique;not null"`
	Meal       Meal     `gorm:"constraint:OnDelete:CASCADE"`
	FoodItemID uint     `gorm:"index:idx_meal_food_item,unique;not null"`
	FoodItem   FoodItem `gorm:"constraint:OnDelete:CASCADE"`

	// Consumed amount in the food item's portion unit.
	Quantity decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// Nutrients derives the entry's scaled values from its food item.
// FoodItem must be loaded.
func (mi *MealFoodItem) Nutrients() Nutrients {
	return mi.FoodItem.NutrientsFor(mi.Quantity)
}
