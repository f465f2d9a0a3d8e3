package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-jobfit-automation/internal/ai"
	"go-jobfit-automation/internal/browser"
	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/notify"
	"go-jobfit-automation/internal/resume"
	"go-jobfit-automation/internal/scorer"
	"go-jobfit-automation/internal/scraper"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	cfg := config.Load()
	if err := cfg.ValidateScoring(); err != nil {
		log.Printf("❌ %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := resume.Load(cfg.ResumeFile)
	if err != nil {
		log.Printf("❌ Failed to load resume: %v", err)
		return 1
	}
	if err := res.Require(); err != nil {
		log.Printf("❌ %v. Paste your resume into %s and run again.", err, res.Path())
		return 1
	}

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

	client, err := ai.NewClient(ctx, cfg.AI)
	if err != nil {
		log.Printf("❌ Failed to init %s client: %v", cfg.AI.Provider, err)
		return 1
	}
	log.Printf("🤖 Scoring with %s (%s)", cfg.AI.Provider, cfg.AI.Model)

	opts := scorer.Options{
		NotifyThreshold: cfg.Scoring.NotifyThreshold,
		Limit:           cfg.Scoring.Limit,
		Delay:           cfg.Scoring.Delay,
	}

	//browser only starts when some job still lacks a description
	if needsDescriptions(repo) {
		pwManager, err := browser.NewManager(cfg.Browser)
		if err != nil {
			log.Printf("❌ Failed to init Playwright: %v", err)
			return 1
		}
		defer pwManager.Close()
		opts.Describer = scraper.NewPageDescriber(pwManager)
	}

	var bot *notify.Bot
	if cfg.TelegramEnabled() {
		bot, err = notify.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("⚠️ Failed to init Telegram Bot: %v. Continuing without alerts.", err)
		} else {
			opts.Notifier = bot
		}
	}

	summary, err := scorer.New(repo, analyses, res, ai.NewFitScorer(client), opts).Run(ctx)
	if err != nil {
		log.Printf("❌ Scoring stopped: %v", err)
		if bot != nil {
			_ = bot.SendError(err)
		}
		return 1
	}

	status := fmt.Sprintf("Scored %d/%d jobs (%d skipped, %d alerts).",
		summary.Scored, summary.Candidates, summary.Skipped, summary.Notified)
	log.Printf("✅ %s", status)
	if bot != nil {
		if err := bot.SendStatus(status); err != nil {
			log.Printf("⚠️ Failed to send Telegram status: %v", err)
		}
	}
	return 0
}

func needsDescriptions(repo *jobs.Repository) bool {
	for _, job := range repo.Unscored() {
		if job.Description == "" {
			return true
		}
	}
	return false
}
