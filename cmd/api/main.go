package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"market-sim/internal/api/handlers"
	"market-sim/internal/api/middleware"
	"market-sim/internal/data"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if wd, err := os.Getwd(); err == nil {
		log.Printf("Working directory: %s", wd)
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	cache := data.GetCache()
	if cache == nil {
		log.Printf("Result cache disabled; simulation results cannot be fetched by ID")
	}

	roundHandler := handlers.NewRoundHandler()
	simulationHandler := handlers.NewSimulationHandler(cache, data.GetDefaultPresetDir())
	catalogHandler := handlers.NewCatalogHandler(data.GetDefaultPresetDir())
	strategyHandler := handlers.NewStrategyHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":         "ok",
			"cached_results": cache.Len(),
			"preset_dir":     catalogHandler.PresetDir(),
		})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/rounds/clear", roundHandler.ClearRound)
		api.POST("/decisions/validate", roundHandler.ValidateDecision)

		api.POST("/simulations", simulationHandler.RunSimulation)
		api.POST("/simulations/compare", simulationHandler.CompareSimulations)
		api.GET("/simulations/:id/ledger", simulationHandler.GetLedger)
		api.GET("/simulations/:id/standings", simulationHandler.GetStandings)

		api.GET("/machines", catalogHandler.ListMachines)
		api.GET("/presets", catalogHandler.ListPresets)
		api.GET("/strategies", strategyHandler.ListStrategies)
	}

	// Serve static files from web/dist (if it exists)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	if _, err := os.Stat(staticDir); err == nil {
		router.Static("/assets", staticDir+"/assets")
		router.StaticFile("/favicon.ico", staticDir+"/favicon.ico")

		// Serve index.html for all non-API routes (SPA routing)
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(404, gin.H{"error": "Not found"})
				return
			}
			c.File(staticDir + "/index.html")
		})
		log.Printf("Serving static files from %s", staticDir)
	} else {
		log.Printf("Static directory %s not found, skipping static file serving", staticDir)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
