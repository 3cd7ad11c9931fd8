package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grunsho/contador-calorias/middlewares"
	"github.com/grunsho/contador-calorias/services"
)

type FoodController struct {
	foods *services.FoodService
}

func NewFoodController(foods *services.FoodService) *FoodController {
	return &FoodController{foods: foods}
}

// GET /api/foods?search=banana
func (ctl *FoodController) List(c *gin.Context) {
	items, err := ctl.foods.List(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// POST /api/foods
func (ctl *FoodController) Create(c *gin.Context) {
	var input services.FoodItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := ctl.foods.Create(middlewares.UserID(c), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateFoodName):
			c.JSON(http.StatusBadRequest, gin.H{"name": err.Error()})
		case errors.Is(err, services.ErrNegativeNutrient):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}
