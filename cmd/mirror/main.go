package main

import (
	"context"
	"log"
	"os"
	"time"

	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/database"
	"go-jobfit-automation/internal/jobs"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()
	if err := cfg.ValidateDatabase(); err != nil {
		log.Printf("❌ %v", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, err := jobs.Open(cfg.DataFolder, cfg.JobsFile)
	if err != nil {
		log.Printf("❌ Failed to open jobs collection: %v", err)
		return 1
	}
	analyses, err := jobs.OpenAnalysis(cfg.DataFolder, cfg.AnalysisFile)
	if err != nil {
		log.Printf("❌ Failed to open analysis collection: %v", err)
		return 1
	}

	log.Println("Attempting to connect to PostgreSQL...")
	db, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("❌ Failed to connect to the database: %v", err)
		return 1
	}
	defer db.Close()

	if version, err := db.Version(ctx); err == nil {
		log.Printf("🚀 Database Version: %s", version)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		log.Printf("❌ %v", err)
		return 1
	}

	n, err := db.SyncJobs(ctx, repo.All())
	if err != nil {
		log.Printf("❌ %v", err)
		return 1
	}
	log.Printf("💾 Mirrored %d jobs", n)

	n, err = db.SyncAnalyses(ctx, analyses.All())
	if err != nil {
		log.Printf("❌ %v", err)
		return 1
	}
	log.Printf("💾 Mirrored %d analyses", n)

	total, scored, err := db.CountJobs(ctx)
	if err != nil {
		log.Printf("❌ %v", err)
		return 1
	}
	log.Printf("✅ Postgres now holds %d jobs (%d scored)", total, scored)
	return 0
}
