package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/grunsho/contador-calorias/models"
)

func TestMealCreateDerivesNutrients(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeBreakfast,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("150")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(meal.MealFoodItems) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(meal.MealFoodItems))
	}
	entry := meal.MealFoodItems[0]
	if entry.CalculatedCalories != "135.00" {
		t.Fatalf("expected 135.00 calories, got %s", entry.CalculatedCalories)
	}
	if entry.FoodItemName != "Banana" {
		t.Fatalf("expected denormalized food name, got %q", entry.FoodItemName)
	}
	if meal.TotalCalories != "135.00" {
		t.Fatalf("expected meal total 135.00, got %s", meal.TotalCalories)
	}
	if meal.Date != "2025-06-13" {
		t.Fatalf("unexpected date: %s", meal.Date)
	}
}

func TestMealTotalsAreSumOfEntries(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")
	rice := createTestFood(t, db, "Rice", "100", "130")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeLunch,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("50")},
			{FoodItem: rice.ID, Quantity: decimal.RequireFromString("200")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 90*0.5 + 130*2 = 45 + 260
	if meal.TotalCalories != "305.00" {
		t.Fatalf("expected total 305.00, got %s", meal.TotalCalories)
	}

	// Reading again must be idempotent.
	again, err := svc.Get(user.ID, meal.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if again.TotalCalories != meal.TotalCalories {
		t.Fatalf("totals changed between reads: %s vs %s", again.TotalCalories, meal.TotalCalories)
	}
}

func TestMealZeroPortionSizeYieldsZero(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	odd := createTestFood(t, db, "Mystery", "0", "500")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeSnack,
		MealFoodItems: []MealEntryInput{
			{FoodItem: odd.ID, Quantity: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if meal.MealFoodItems[0].CalculatedCalories != "0.00" {
		t.Fatalf("expected 0.00 for zero portion size, got %s", meal.MealFoodItems[0].CalculatedCalories)
	}
	if meal.TotalCalories != "0.00" {
		t.Fatalf("expected total 0.00, got %s", meal.TotalCalories)
	}
}

func TestMealDuplicateSlotRejected(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")

	svc := NewMealService(db)
	input := MealInput{Date: "2025-06-13", MealType: models.MealTypeDinner}
	if _, err := svc.Create(user.ID, input); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	if _, err := svc.Create(user.ID, input); !errors.Is(err, ErrDuplicateMeal) {
		t.Fatalf("expected ErrDuplicateMeal, got %v", err)
	}

	// Another user may use the same slot.
	other := createTestUser(t, db, "bob")
	if _, err := svc.Create(other.ID, input); err != nil {
		t.Fatalf("Create for another user returned error: %v", err)
	}
}

func TestMealDuplicateFoodMerged(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeBreakfast,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("50")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if len(meal.MealFoodItems) != 1 {
		t.Fatalf("expected merged single entry, got %d", len(meal.MealFoodItems))
	}
	if meal.MealFoodItems[0].Quantity != "150.00" {
		t.Fatalf("expected merged quantity 150.00, got %s", meal.MealFoodItems[0].Quantity)
	}
}

func TestMealCreateUnknownFoodRollsBack(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	_, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeBreakfast,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
			{FoodItem: 9999, Quantity: decimal.RequireFromString("100")},
		},
	})
	if !errors.Is(err, ErrFoodItemNotFound) {
		t.Fatalf("expected ErrFoodItemNotFound, got %v", err)
	}

	// The transaction must leave no orphaned meal or entries behind.
	var mealCount, entryCount int64
	db.Model(&models.Meal{}).Count(&mealCount)
	db.Model(&models.MealFoodItem{}).Count(&entryCount)
	if mealCount != 0 || entryCount != 0 {
		t.Fatalf("expected rollback, found %d meals and %d entries", mealCount, entryCount)
	}
}

func TestMealOwnershipScoping(t *testing.T) {
	db := setupTestDB(t)
	ana := createTestUser(t, db, "ana")
	bob := createTestUser(t, db, "bob")

	svc := NewMealService(db)
	meal, err := svc.Create(ana.ID, MealInput{Date: "2025-06-13", MealType: models.MealTypeLunch})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(bob.ID, meal.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound for foreign meal, got %v", err)
	}
	if err := svc.Delete(bob.ID, meal.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound on foreign delete, got %v", err)
	}
	if _, err := svc.Get(ana.ID, meal.ID); err != nil {
		t.Fatalf("owner Get returned error: %v", err)
	}
}

func TestMealUpdateReplacesEntries(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")
	rice := createTestFood(t, db, "Rice", "100", "130")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeLunch,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newEntries := []MealEntryInput{
		{FoodItem: rice.ID, Quantity: decimal.RequireFromString("100")},
	}
	updated, err := svc.Update(user.ID, meal.ID, MealUpdateInput{MealFoodItems: &newEntries})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if len(updated.MealFoodItems) != 1 {
		t.Fatalf("expected 1 entry after replace, got %d", len(updated.MealFoodItems))
	}
	if updated.MealFoodItems[0].FoodItem != rice.ID {
		t.Fatalf("expected entry replaced with rice, got food %d", updated.MealFoodItems[0].FoodItem)
	}
	if updated.TotalCalories != "130.00" {
		t.Fatalf("expected total 130.00, got %s", updated.TotalCalories)
	}
}

func TestMealUpdateWithoutEntriesKeepsThem(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeLunch,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newType := models.MealTypeDinner
	updated, err := svc.Update(user.ID, meal.ID, MealUpdateInput{MealType: &newType})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.MealType != models.MealTypeDinner {
		t.Fatalf("expected meal type updated, got %s", updated.MealType)
	}
	if len(updated.MealFoodItems) != 1 {
		t.Fatalf("expected entries untouched, got %d", len(updated.MealFoodItems))
	}
}

func TestMealUpdateSlotCollision(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")

	svc := NewMealService(db)
	if _, err := svc.Create(user.ID, MealInput{Date: "2025-06-13", MealType: models.MealTypeLunch}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(user.ID, MealInput{Date: "2025-06-13", MealType: models.MealTypeDinner})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	lunch := models.MealTypeLunch
	if _, err := svc.Update(user.ID, second.ID, MealUpdateInput{MealType: &lunch}); !errors.Is(err, ErrDuplicateMeal) {
		t.Fatalf("expected ErrDuplicateMeal on slot collision, got %v", err)
	}
}

func TestMealDeleteRemovesEntries(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	meal, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeLunch,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(user.ID, meal.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	var entryCount int64
	db.Model(&models.MealFoodItem{}).Count(&entryCount)
	if entryCount != 0 {
		t.Fatalf("expected entries removed with meal, found %d", entryCount)
	}
	if _, err := svc.Get(user.ID, meal.ID); !errors.Is(err, ErrMealNotFound) {
		t.Fatalf("expected ErrMealNotFound after delete, got %v", err)
	}
}

func TestMealListOrderAndFilter(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")

	svc := NewMealService(db)
	for _, m := range []struct{ date, mealType string }{
		{"2025-06-12", models.MealTypeDinner},
		{"2025-06-13", models.MealTypeBreakfast},
		{"2025-06-13", models.MealTypeLunch},
	} {
		if _, err := svc.Create(user.ID, MealInput{Date: m.date, MealType: m.mealType}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	meals, err := svc.List(user.ID, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(meals) != 3 {
		t.Fatalf("expected 3 meals, got %d", len(meals))
	}
	if meals[0].Date != "2025-06-13" || meals[2].Date != "2025-06-12" {
		t.Fatalf("expected newest date first, got %s .. %s", meals[0].Date, meals[2].Date)
	}

	day, err := ParseDate("2025-06-13")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	filtered, err := svc.List(user.ID, &day)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 meals on 2025-06-13, got %d", len(filtered))
	}
}

func TestDailySummary(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")
	banana := createTestFood(t, db, "Banana", "100", "90")

	svc := NewMealService(db)
	for _, mealType := range []string{models.MealTypeBreakfast, models.MealTypeDinner} {
		_, err := svc.Create(user.ID, MealInput{
			Date:     "2025-06-13",
			MealType: mealType,
			MealFoodItems: []MealEntryInput{
				{FoodItem: banana.ID, Quantity: decimal.RequireFromString("100")},
			},
		})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	day, _ := ParseDate("2025-06-13")
	summary, err := svc.DailySummary(user.ID, day)
	if err != nil {
		t.Fatalf("DailySummary returned error: %v", err)
	}

	if summary.TotalCalories != "180.00" {
		t.Fatalf("expected day total 180.00, got %s", summary.TotalCalories)
	}
	if len(summary.Meals) != 2 {
		t.Fatalf("expected 2 meals in summary, got %d", len(summary.Meals))
	}
}

func TestMealInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "ana")

	svc := NewMealService(db)
	if _, err := svc.Create(user.ID, MealInput{Date: "13/06/2025", MealType: models.MealTypeLunch}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := svc.Create(user.ID, MealInput{Date: "2025-06-13", MealType: "brunch"}); !errors.Is(err, ErrInvalidMealType) {
		t.Fatalf("expected ErrInvalidMealType, got %v", err)
	}

	banana := createTestFood(t, db, "Banana", "100", "90")
	_, err := svc.Create(user.ID, MealInput{
		Date:     "2025-06-13",
		MealType: models.MealTypeLunch,
		MealFoodItems: []MealEntryInput{
			{FoodItem: banana.ID, Quantity: decimal.RequireFromString("-1")},
		},
	})
	if !errors.Is(err, ErrNegativeQuantity) {
		t.Fatalf("expected ErrNegativeQuantity, got %v", err)
	}
}
