package main

import (
	"log"

	"go-jobfit-automation/internal/api"
	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/resume"
)

func main() {
	cfg := config.Load()

	repo, err := jobs.Open(cfg.DataFolder, cfg.JobsFile)
	if err != nil {
		log.Fatalf("❌ Failed to open jobs collection: %v", err)
	}
	analyses, err := jobs.OpenAnalysis(cfg.DataFolder, cfg.AnalysisFile)
	if err != nil {
		log.Fatalf("❌ Failed to open analysis collection: %v", err)
	}
	res, err := resume.Load(cfg.ResumeFile)
	if err != nil {
		log.Fatalf("❌ Failed to load resume: %v", err)
	}

	r := api.NewRouter(api.NewHandler(repo, analyses, res), cfg.Server.AllowOrigins)

	log.Printf("🚀 Server listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
