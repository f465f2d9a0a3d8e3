package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"go-jobfit-automation/internal/browser"
	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/report"
)

func main() {
	out := flag.String("out", filepath.Join("reports", "jobs.pdf"), "output file (.pdf or .html)")
	minScore := flag.Int("min-score", 0, "only include jobs scored at least this")
	flag.Parse()

	cfg := config.Load()

	repo, err := jobs.Open(cfg.DataFolder, cfg.JobsFile)
	if err != nil {
		log.Fatalf("❌ Failed to open jobs collection: %v", err)
	}

	gen, err := report.NewGenerator()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	html, err := gen.HTML(repo.All(), *minScore)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	data := html
	if strings.EqualFold(filepath.Ext(*out), ".pdf") {
		pwManager, err := browser.NewManager(cfg.Browser)
		if err != nil {
			log.Fatalf("❌ Failed to init Playwright: %v", err)
		}
		data, err = gen.PDF(pwManager, html)
		pwManager.Close()
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
	}

	if err := report.SaveToFile(data, *out); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Printf("📄 Report saved: %s", *out)
}
