package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grunsho/contador-calorias/controllers"
	"github.com/grunsho/contador-calorias/middlewares"
	"github.com/grunsho/contador-calorias/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	authCtl := controllers.NewAuthController(services.NewAuthService(db))
	foodCtl := controllers.NewFoodController(services.NewFoodService(db))
	mealCtl := controllers.NewMealController(services.NewMealService(db))
	userCtl := controllers.NewUserController(services.NewUserService(db))

	api := r.Group("/api")

	// Public auth routes
	api.POST("/register", authCtl.Register)
	api.POST("/token", authCtl.Token)
	api.POST("/token/refresh", authCtl.Refresh)

	// Protected routes, scoped to the authenticated user
	protected := api.Group("")
	protected.Use(middlewares.AuthMiddleware())
	{
		protected.GET("/foods", foodCtl.List)
		protected.POST("/foods", foodCtl.Create)

		protected.GET("/meals", mealCtl.List)
		protected.POST("/meals", mealCtl.Create)
		protected.GET("/meals/:id", mealCtl.Get)
		protected.PUT("/meals/:id", mealCtl.Update)
		protected.PATCH("/meals/:id", mealCtl.Update)
		protected.DELETE("/meals/:id", mealCtl.Delete)

		protected.GET("/summary", mealCtl.DailySummary)

		protected.GET("/profile", userCtl.GetProfile)
		protected.PUT("/profile", userCtl.UpdateProfile)
	}

	return r
}
