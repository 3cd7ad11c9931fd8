package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grunsho/contador-calorias/models"
)

var (
	ErrMealNotFound     = errors.New("meal not found")
	ErrDuplicateMeal    = errors.New("a meal for that date and meal type already exists")
	ErrInvalidMealType  = errors.New("invalid meal type")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrFoodItemNotFound = errors.New("referenced food item does not exist")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

type MealEntryInput struct {
	FoodItem uint            `json:"food_item" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
}

type MealInput struct {
	Date          string           `json:"date" binding:"required"`
	MealType      string           `json:"meal_type" binding:"required"`
	MealFoodItems []MealEntryInput `json:"meal_food_items"`
}

// MealUpdateInput leaves every field optional. A nil MealFoodItems keeps the
// existing entry set; a non-nil one replaces it wholesale.
type MealUpdateInput struct {
	Date          *string           `json:"date"`
	MealType      *string           `json:"meal_type"`
	MealFoodItems *[]MealEntryInput `json:"meal_food_items"`
}

type MealEntryResponse struct {
	ID                  uint    `json:"id"`
	FoodItem            uint    `json:"food_item"`
	FoodItemName        string  `json:"food_item_name"`
	FoodItemBrand       *string `json:"food_item_brand"`
	FoodItemPortionUnit string  `json:"food_item_portion_unit"`
	Quantity            string  `json:"quantity"`
	CalculatedCalories  string  `json:"calculated_calories"`
	CalculatedProteins  string  `json:"calculated_proteins"`
	CalculatedFats      string  `json:"calculated_fats"`
	CalculatedCarbs     string  `json:"calculated_carbs"`
}

type MealResponse struct {
	ID            uint                `json:"id"`
	Date          string              `json:"date"`
	MealType      string              `json:"meal_type"`
	MealFoodItems []MealEntryResponse `json:"meal_food_items"`
	TotalCalories string              `json:"total_calories"`
	TotalProteins string              `json:"total_proteins"`
	TotalFats     string              `json:"total_fats"`
	TotalCarbs    string              `json:"total_carbs"`
}

type DailySummaryResponse struct {
	Date          string         `json:"date"`
	TotalCalories string         `json:"total_calories"`
	TotalProteins string         `json:"total_proteins"`
	TotalFats     string         `json:"total_fats"`
	TotalCarbs    string         `json:"total_carbs"`
	Meals         []MealResponse `json:"meals"`
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// mealTotals sums the derived values of every loaded entry.
func mealTotals(meal *models.Meal) models.Nutrients {
	var totals models.Nutrients
	for i := range meal.FoodItems {
		totals = totals.Add(meal.FoodItems[i].Nutrients())
	}
	return totals
}

func mealResponse(meal *models.Meal) MealResponse {
	entries := make([]MealEntryResponse, 0, len(meal.FoodItems))
	for i := range meal.FoodItems {
		mi := &meal.FoodItems[i]
		n := mi.Nutrients()
		entries = append(entries, MealEntryResponse{
			ID:                  mi.ID,
			FoodItem:            mi.FoodItemID,
			FoodItemName:        mi.FoodItem.Name,
			FoodItemBrand:       mi.FoodItem.Brand,
			FoodItemPortionUnit: mi.FoodItem.PortionUnit,
			Quantity:            mi.Quantity.StringFixed(2),
			CalculatedCalories:  n.Calories.StringFixed(2),
			CalculatedProteins:  n.Proteins.StringFixed(2),
			CalculatedFats:      n.Fats.StringFixed(2),
			CalculatedCarbs:     n.Carbs.StringFixed(2),
		})
	}

	totals := mealTotals(meal)
	return MealResponse{
		ID:            meal.ID,
		Date:          meal.Date.Format("2006-01-02"),
		MealType:      meal.MealType,
		MealFoodItems: entries,
		TotalCalories: totals.Calories.StringFixed(2),
		TotalProteins: totals.Proteins.StringFixed(2),
		TotalFats:     totals.Fats.StringFixed(2),
		TotalCarbs:    totals.Carbs.StringFixed(2),
	}
}

// mergeEntries collapses repeated food ids in a request payload by summing
// their quantities, so the (meal, food item) unique index never fires for a
// single well-formed request.
func mergeEntries(entries []MealEntryInput) ([]MealEntryInput, error) {
	merged := make([]MealEntryInput, 0, len(entries))
	index := make(map[uint]int, len(entries))
	for _, e := range entries {
		if e.Quantity.IsNegative() {
			return nil, ErrNegativeQuantity
		}
		if i, ok := index[e.FoodItem]; ok {
			merged[i].Quantity = merged[i].Quantity.Add(e.Quantity)
			continue
		}
		index[e.FoodItem] = len(merged)
		merged = append(merged, e)
	}
	return merged, nil
}

// createEntries inserts one MealFoodItem per entry, verifying each food id.
func createEntries(tx *gorm.DB, mealID uint, entries []MealEntryInput) error {
	for _, e := range entries {
		var count int64
		if err := tx.Model(&models.FoodItem{}).
			Where("id = ?", e.FoodItem).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrFoodItemNotFound
		}

		mi := models.MealFoodItem{
			MealID:     mealID,
			FoodItemID: e.FoodItem,
			Quantity:   e.Quantity,
		}
		if err := tx.Create(&mi).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create logs a new meal with its entries in a single transaction: either
// the meal row and every entry are written, or nothing is.
func (s *MealService) Create(userID uint, input MealInput) (*MealResponse, error) {
	date, err := ParseDate(input.Date)
	if err != nil {
		return nil, err
	}
	if !models.IsValidMealType(input.MealType) {
		return nil, ErrInvalidMealType
	}
	entries, err := mergeEntries(input.MealFoodItems)
	if err != nil {
		return nil, err
	}

	meal := models.Meal{UserID: userID, Date: date, MealType: input.MealType}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Meal{}).
			Where("user_id = ? AND date = ? AND meal_type = ?", userID, date, input.MealType).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMeal
		}

		if err := tx.Create(&meal).Error; err != nil {
			return err
		}
		return createEntries(tx, meal.ID, entries)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, meal.ID)
}

// List returns the caller's meals, newest date first then by meal type, each
// with derived per-entry values and per-meal totals. A non-zero date narrows
// the listing to that day.
func (s *MealService) List(userID uint, date *time.Time) ([]MealResponse, error) {
	q := s.db.
		Preload("FoodItems.FoodItem").
		Where("user_id = ?", userID).
		Order("date DESC, meal_type ASC")
	if date != nil {
		q = q.Where("date = ?", *date)
	}

	var meals []models.Meal
	if err := q.Find(&meals).Error; err != nil {
		return nil, err
	}

	out := make([]MealResponse, 0, len(meals))
	for i := range meals {
		out = append(out, mealResponse(&meals[i]))
	}
	return out, nil
}

// Get fetches one meal scoped to its owner. Another user's meal id behaves
// exactly like a nonexistent one.
func (s *MealService) Get(userID, mealID uint) (*MealResponse, error) {
	var meal models.Meal
	err := s.db.
		Preload("FoodItems.FoodItem").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}

	resp := mealResponse(&meal)
	return &resp, nil
}

// Update changes the date and/or meal type, and replaces the entry set when
// the payload carries one. Entry replacement is delete-and-recreate inside
// the same transaction as the meal row update.
func (s *MealService) Update(userID, mealID uint, input MealUpdateInput) (*MealResponse, error) {
	var entries []MealEntryInput
	if input.MealFoodItems != nil {
		var err error
		if entries, err = mergeEntries(*input.MealFoodItems); err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.
			Where("id = ? AND user_id = ?", mealID, userID).
			First(&meal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealNotFound
			}
			return err
		}

		if input.Date != nil {
			date, err := ParseDate(*input.Date)
			if err != nil {
				return err
			}
			meal.Date = date
		}
		if input.MealType != nil {
			if !models.IsValidMealType(*input.MealType) {
				return ErrInvalidMealType
			}
			meal.MealType = *input.MealType
		}

		// Moving the meal to another slot must not collide with one
		// that is already there.
		var count int64
		if err := tx.Model(&models.Meal{}).
			Where("user_id = ? AND date = ? AND meal_type = ? AND id <> ?",
				userID, meal.Date, meal.MealType, meal.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateMeal
		}

		if err := tx.Save(&meal).Error; err != nil {
			return err
		}

		if input.MealFoodItems == nil {
			return nil
		}
		if err := tx.Unscoped().
			Where("meal_id = ?", meal.ID).
			Delete(&models.MealFoodItem{}).Error; err != nil {
			return err
		}
		return createEntries(tx, meal.ID, entries)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(userID, mealID)
}

// Delete removes a meal and its entries, scoped to the owner.
func (s *MealService) Delete(userID, mealID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var meal models.Meal
		if err := tx.
			Where("id = ? AND user_id = ?", mealID, userID).
			First(&meal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealNotFound
			}
			return err
		}

		if err := tx.Unscoped().
			Where("meal_id = ?", meal.ID).
			Delete(&models.MealFoodItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&meal).Error
	})
}

// DailySummary aggregates one day's meals into day-level totals.
func (s *MealService) DailySummary(userID uint, date time.Time) (*DailySummaryResponse, error) {
	var raw []models.Meal
	if err := s.db.
		Preload("FoodItems.FoodItem").
		Where("user_id = ? AND date = ?", userID, date).
		Order("meal_type ASC").
		Find(&raw).Error; err != nil {
		return nil, err
	}

	totals := models.Nutrients{}
	meals := make([]MealResponse, 0, len(raw))
	for i := range raw {
		meals = append(meals, mealResponse(&raw[i]))
		totals = totals.Add(mealTotals(&raw[i]))
	}

	return &DailySummaryResponse{
		Date:          date.Format("2006-01-02"),
		TotalCalories: totals.Calories.StringFixed(2),
		TotalProteins: totals.Proteins.StringFixed(2),
		TotalFats:     totals.Fats.StringFixed(2),
		TotalCarbs:    totals.Carbs.StringFixed(2),
		Meals:         meals,
	}, nil
}
