package main

import (
	"log"
	"os"

	"github.com/grunsho/contador-calorias/config"
	"github.com/grunsho/contador-calorias/routes"
)

func main() {
	config.InitDB()

	if err := config.SeedFoodItems(config.DB); err != nil {
		log.Fatalf("Failed to seed food catalog: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := routes.SetupRouter(config.DB)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
