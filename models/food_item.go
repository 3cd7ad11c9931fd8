package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// A catalog entry: nutrition facts per the defined portion (usually 100 g).
type FoodItem struct {
	gorm.Model
	Name        string          `gorm:"uniqueIndex;not null"`
	Brand       *string         `gorm:"type:varchar(255)"`
	PortionSize decimal.Decimal `gorm:"type:decimal(7,2)"`
	PortionUnit string          `gorm:"type:varchar(50)"`

	// Per-portion values
	Calories decimal.Decimal `gorm:"type:decimal(7,2)"`
	Proteins decimal.Decimal `gorm:"type:decimal(7,2)"`
	Fats     decimal.Decimal `gorm:"type:decimal(7,2)"`
	Carbs    decimal.Decimal `gorm:"type:decimal(7,2)"`

	// Optional extras
	Sugars *decimal.Decimal `gorm:"type:decimal(7,2)"`
	Fiber  *decimal.Decimal `gorm:"type:decimal(7,2)"`
	Sodium *decimal.Decimal `gorm:"type:decimal(7,2)"`

	CreatedByID *uint `gorm:"index"`
	CreatedBy   *User `gorm:"constraint:OnDelete:SET NULL"`
	IsCustom    bool
}

// BeforeSave keeps IsCustom consistent with ownership on every persist path:
// an owned item is custom, an unowned one is not, whatever the caller set.
func (f *FoodItem) BeforeSave(tx *gorm.DB) error {
	f.IsCustom = f.CreatedByID != nil
	return nil
}

// Nutrients groups the four macro values tracked per meal entry.
type Nutrients struct {
	Calories decimal.Decimal
	Proteins decimal.Decimal
	Fats     decimal.Decimal
	Carbs    decimal.Decimal
}

// Add returns the element-wise sum of two Nutrients.
func (n Nutrients) Add(other Nutrients) Nutrients {
	return Nutrients{
		Calories: n.Calories.Add(other.Calories),
		Proteins: n.Proteins.Add(other.Proteins),
		Fats:     n.Fats.Add(other.Fats),
		Carbs:    n.Carbs.Add(other.Carbs),
	}
}

// NutrientsFor scales the per-portion values to a consumed quantity,
// expressed in the item's portion unit. A zero portion size yields all
// zeroes rather than dividing by zero.
func (f *FoodItem) NutrientsFor(quantity decimal.Decimal) Nutrients {
	if f.PortionSize.IsZero() {
		return Nutrients{}
	}
	ratio := quantity.Div(f.PortionSize)
	return Nutrients{
		Calories: f.Calories.Mul(ratio),
		Proteins: f.Proteins.Mul(ratio),
		Fats:     f.Fats.Mul(ratio),
		Carbs:    f.Carbs.Mul(ratio),
	}
}
