package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/grunsho/contador-calorias/models"
)

var (
	ErrDuplicateFoodName = errors.New("a food item with that name already exists")
	ErrNegativeNutrient  = errors.New("nutrient values cannot be negative")
)

type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

type FoodItemInput struct {
	Name        string           `json:"name" binding:"required"`
	Brand       *string          `json:"brand"`
	PortionSize *decimal.Decimal `json:"portion_size_g"`
	PortionUnit string           `json:"portion_unit"`
	Calories    *decimal.Decimal `json:"calories"`
	Proteins    *decimal.Decimal `json:"proteins"`
	Fats        *decimal.Decimal `json:"fats"`
	Carbs       *decimal.Decimal `json:"carbs"`
	Sugars      *decimal.Decimal `json:"sugars"`
	Fiber       *decimal.Decimal `json:"fiber"`
	Sodium      *decimal.Decimal `json:"sodium"`
}

type FoodItemResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Brand       *string `json:"brand"`
	PortionSize string  `json:"portion_size_g"`
	PortionUnit string  `json:"portion_unit"`
	Calories    string  `json:"calories"`
	Proteins    string  `json:"proteins"`
	Fats        string  `json:"fats"`
	Carbs       string  `json:"carbs"`
	Sugars      *string `json:"sugars"`
	Fiber       *string `json:"fiber"`
	Sodium      *string `json:"sodium"`
	CreatedBy   *uint   `json:"created_by"`
	IsCustom    bool    `json:"is_custom"`
}

func foodItemResponse(f models.FoodItem) FoodItemResponse {
	fixed := func(d *decimal.Decimal) *string {
		if d == nil {
			return nil
		}
		s := d.StringFixed(2)
		return &s
	}
	return FoodItemResponse{
		ID:          f.ID,
		Name:        f.Name,
		Brand:       f.Brand,
		PortionSize: f.PortionSize.StringFixed(2),
		PortionUnit: f.PortionUnit,
		Calories:    f.Calories.StringFixed(2),
		Proteins:    f.Proteins.StringFixed(2),
		Fats:        f.Fats.StringFixed(2),
		Carbs:       f.Carbs.StringFixed(2),
		Sugars:      fixed(f.Sugars),
		Fiber:       fixed(f.Fiber),
		Sodium:      fixed(f.Sodium),
		CreatedBy:   f.CreatedByID,
		IsCustom:    f.IsCustom,
	}
}

// List returns the whole catalog ordered by name, optionally narrowed by a
// case-insensitive substring match against name or brand.
func (s *FoodService) List(search string) ([]FoodItemResponse, error) {
	q := s.db.Order("name")
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(brand) LIKE ?", pattern, pattern)
	}

	var items []models.FoodItem
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}

	out := make([]FoodItemResponse, 0, len(items))
	for _, f := range items {
		out = append(out, foodItemResponse(f))
	}
	return out, nil
}

// Create adds a food item owned by userID. Owned items are always custom;
// unowned (global) items only enter the catalog through seeding.
func (s *FoodService) Create(userID uint, input FoodItemInput) (*FoodItemResponse, error) {
	for _, d := range []*decimal.Decimal{
		input.PortionSize, input.Calories, input.Proteins, input.Fats,
		input.Carbs, input.Sugars, input.Fiber, input.Sodium,
	} {
		if d != nil && d.IsNegative() {
			return nil, ErrNegativeNutrient
		}
	}

	var count int64
	if err := s.db.Model(&models.FoodItem{}).
		Where("name = ?", input.Name).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateFoodName
	}

	zeroIfNil := func(d *decimal.Decimal) decimal.Decimal {
		if d == nil {
			return decimal.Zero
		}
		return *d
	}

	portionSize := decimal.NewFromInt(100)
	if input.PortionSize != nil {
		portionSize = *input.PortionSize
	}
	portionUnit := input.PortionUnit
	if portionUnit == "" {
		portionUnit = "g"
	}

	item := models.FoodItem{
		Name:        input.Name,
		Brand:       input.Brand,
		PortionSize: portionSize,
		PortionUnit: portionUnit,
		Calories:    zeroIfNil(input.Calories),
		Proteins:    zeroIfNil(input.Proteins),
		Fats:        zeroIfNil(input.Fats),
		Carbs:       zeroIfNil(input.Carbs),
		Sugars:      input.Sugars,
		Fiber:       input.Fiber,
		Sodium:      input.Sodium,
		CreatedByID: &userID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}

	resp := foodItemResponse(item)
	return &resp, nil
}
