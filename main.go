package main

import (
	"context"
	"embed"
	"encoding/json"
	"log"
	"time"

	"jobboard-bot/config"
	"jobboard-bot/internal/bot"
	"jobboard-bot/internal/localization"
	"jobboard-bot/internal/render"
	"jobboard-bot/internal/scheduler"
	"jobboard-bot/internal/storage"
	"jobboard-bot/internal/web"
)

//go:embed locales
var localeFiles embed.FS

//go:embed categories.json
var categoriesJSON []byte

func main() {
	log.Println("Starting Job Board Bot...")

	ctx := context.Background()
	cfg := config.LoadConfig()

	dbStorage, err := storage.NewStorage(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStorage.Close()

	if err := dbStorage.SetUserRole(cfg.SuperAdminID, storage.RoleAdmin); err != nil {
		log.Fatalf("Failed to set superadmin status in db: %v", err)
	}
	log.Printf("Superadmin with ID %d ensured.", cfg.SuperAdminID)

	migrateCategories(dbStorage)

	localizer := localization.NewLocalizer(localeFiles)
	renderer := render.NewRenderer(
		render.NewPlaywrightRasterizer(cfg.TemplatesDir),
		localizer, cfg.ArtifactsDir, cfg.RedirectBaseURL,
	)

	telegramBot, err := bot.NewBot(ctx, &cfg, localizer, dbStorage, renderer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	appScheduler, err := scheduler.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sessionTTL := time.Duration(cfg.SessionTTLMin) * time.Minute
	appScheduler.AddSessionSweep(sessionTTL, telegramBot.SessionStores()...)
	appScheduler.Start()
	defer appScheduler.Stop()

	server := web.NewServer(cfg.ListenAddr, dbStorage)
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("Bot is running...")
	telegramBot.Start()
}

func migrateCategories(s *storage.Storage) {
	isEmpty, err := s.IsCategoriesEmpty()
	if err != nil {
		log.Printf("Could not check if categories are empty: %v", err)
		return
	}
	if !isEmpty {
		log.Println("Categories already exist in database. Skipping migration.")
		return
	}
	log.Println("No categories found in database. Migrating from categories.json...")
	var catalog []storage.CategorySeed
	if err := json.Unmarshal(categoriesJSON, &catalog); err != nil {
		log.Printf("Could not parse categories file for migration: %v", err)
		return
	}
	if err := s.SeedCategories(catalog); err != nil {
		log.Printf("Failed to migrate categories: %v", err)
		return
	}
	log.Println("Categories migration completed.")
}
