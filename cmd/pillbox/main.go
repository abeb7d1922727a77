package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/pillbox/internal/api"
	"github.com/terraincognita07/pillbox/internal/db"
	"github.com/terraincognita07/pillbox/internal/models"
	"github.com/terraincognita07/pillbox/internal/services"
)

func main() {
	location := mustLoadLocation(getEnv("TZ", "UTC"))
	time.Local = location

	dbPath := getEnv("DB_PATH", filepath.Join("data", "pillbox.db"))
	port := getEnv("PORT", "8080")

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	repos := db.NewRepositories(database)
	if err := repos.Achievements.SeedDefaults(models.DefaultAchievements()); err != nil {
		log.Fatalf("seed achievements failed: %v", err)
	}

	historyService := services.NewHistoryService(repos.History)
	reportService := services.NewReportService(repos.History, location)
	achievementService := services.NewAchievementService(repos.Achievements, repos.History, location)

	notifier := services.NewLocalNotifier(location, func(trigger models.NotificationTrigger) {
		// Reminders only announce; the dose is logged when the user
		// responds through the callback endpoint.
		log.Printf("reminder: %s: %s (medication %d)", trigger.Title, trigger.Body, trigger.MedicationID)
	})
	defer notifier.Close()

	scheduler := services.NewReminderScheduler(notifier, location)
	doseService := services.NewDoseService(repos.Medications, historyService, scheduler, achievementService)
	medicationService := services.NewMedicationService(repos.Medications, scheduler)

	if err := medicationService.ScheduleAll(); err != nil {
		log.Printf("reschedule stored medications failed: %v", err)
	}

	handler := api.NewHandler(medicationService, doseService, historyService, reportService, achievementService, location)

	app := fiber.New(fiber.Config{
		AppName:               "Pillbox",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		notifier.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Pillbox listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, dbPath, location.String())
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
