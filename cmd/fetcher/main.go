package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobfit-automation/internal/browser"
	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/fetcher"
	"go-jobfit-automation/internal/filter"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/notify"
	"go-jobfit-automation/internal/scraper"
)

func main() {
	os.Exit(run())
}

func run() int {
	//load config
	cfg := config.Load()
	log.Printf("🔧 Config loaded. Keywords: %q, Location: %q", cfg.Search.Keywords, cfg.Search.Location)

	//setup context with timeout = 10 mins, cancelled on Ctrl+C
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	repo, err := jobs.Open(cfg.DataFolder, cfg.JobsFile)
	if err != nil {
		log.Printf("❌ Failed to open jobs collection: %v", err)
		return 1
	}

	//init playwright manager
	pwManager, err := browser.NewManager(cfg.Browser)
	if err != nil {
		log.Printf("❌ Failed to init Playwright: %v", err)
		return 1
	}
	defer pwManager.Close()

	source := scraper.NewSimplyHiredSource(pwManager)
	query := scraper.Query{
		Keywords: cfg.Search.Keywords,
		Location: cfg.Search.Location,
		MaxPages: cfg.Search.MaxPages,
	}

	log.Printf("\n▶️ Starting source: %s", source.Name())
	summary, err := fetcher.New(repo, filter.New(cfg.Filter)).Run(ctx, source, query)
	if err != nil {
		log.Printf("❌ Fetch failed: %v", err)
		reportStatus(cfg, "", err)
		return 1
	}

	status := fmt.Sprintf("Fetched %d jobs from %s: %d saved, %d new, %d filtered out.",
		summary.Fetched, summary.Source, summary.Saved, summary.New, summary.Dropped)
	log.Printf("✅ %s", status)
	reportStatus(cfg, status, nil)
	return 0
}

func reportStatus(cfg *config.Config, status string, runErr error) {
	if !cfg.TelegramEnabled() {
		return
	}
	bot, err := notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("⚠️ Failed to init Telegram Bot: %v", err)
		return
	}
	if runErr != nil {
		err = bot.SendError(runErr)
	} else {
		err = bot.SendStatus(status)
	}
	if err != nil {
		log.Printf("⚠️ Failed to send Telegram status: %v", err)
	}
}
