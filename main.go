package main

import (
	"log"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := loadConfig(os.Getenv)
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	portfolio, err := loadPortfolio(portfolioYAML)
	if err != nil {
		log.Fatal("Failed to load portfolio data: ", err)
	}

	metrics, err := openMetrics(cfg.DBPath, generateToken())
	if err != nil {
		log.Fatal("Failed to open metrics database: ", err)
	}
	defer metrics.Close()
	log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")

	// Clean up old visitor data for privacy compliance (run in background)
	go func() {
		if _, err := metrics.Cleanup(metricsRetention); err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		}
	}()

	app := newApp(cfg, portfolio, metrics)
	stopCleanup := app.sessions.StartCleanup(10 * time.Minute)
	defer stopCleanup()
	defer app.sessions.Close()

	r := gin.Default()
	if err := app.routes(r); err != nil {
		log.Fatal("Failed to set up routes: ", err)
	}

	log.Printf("Serving %d templates, switch delay %s, admin at /admin/login", len(AllTemplates), cfg.SwitchDelay)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
