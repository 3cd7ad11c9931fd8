package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grunsho/contador-calorias/middlewares"
	"github.com/grunsho/contador-calorias/services"
)

type MealController struct {
	meals *services.MealService
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{meals: meals}
}

func mealError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMealNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrDuplicateMeal),
		errors.Is(err, services.ErrInvalidMealType),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrFoodItemNotFound),
		errors.Is(err, services.ErrNegativeQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func mealID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return 0, false
	}
	return uint(id), true
}

// POST /api/meals
func (ctl *MealController) Create(c *gin.Context) {
	var input services.MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := ctl.meals.Create(middlewares.UserID(c), input)
	if err != nil {
		mealError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

// GET /api/meals?date=2025-06-13
func (ctl *MealController) List(c *gin.Context) {
	var date *time.Time
	if s := c.Query("date"); s != "" {
		d, err := services.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date = &d
	}

	meals, err := ctl.meals.List(middlewares.UserID(c), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

// GET /api/meals/:id
func (ctl *MealController) Get(c *gin.Context) {
	id, ok := mealID(c)
	if !ok {
		return
	}

	meal, err := ctl.meals.Get(middlewares.UserID(c), id)
	if err != nil {
		mealError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// PUT/PATCH /api/meals/:id
func (ctl *MealController) Update(c *gin.Context) {
	id, ok := mealID(c)
	if !ok {
		return
	}

	var input services.MealUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := ctl.meals.Update(middlewares.UserID(c), id, input)
	if err != nil {
		mealError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// DELETE /api/meals/:id
func (ctl *MealController) Delete(c *gin.Context) {
	id, ok := mealID(c)
	if !ok {
		return
	}

	if err := ctl.meals.Delete(middlewares.UserID(c), id); err != nil {
		mealError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/summary?date=2025-06-13 (defaults to today)
func (ctl *MealController) DailySummary(c *gin.Context) {
	now := time.Now().UTC()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if s := c.Query("date"); s != "" {
		d, err := services.ParseDate(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		date = d
	}

	summary, err := ctl.meals.DailySummary(middlewares.UserID(c), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}
