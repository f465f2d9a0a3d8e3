// Package fetcher runs one search against a job source and upserts what it
// finds into the jobs collection.
package fetcher

import (
	"context"
	"log"

	"go-jobfit-automation/internal/apperr"
	"go-jobfit-automation/internal/filter"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/scraper"
)

type Summary struct {
	Source  string
	Fetched int
	Dropped int
	Saved   int
	New     int
}

type Fetcher struct {
	repo   *jobs.Repository
	filter *filter.Filter
}

// New creates a fetcher. A nil filter keeps every posting.
func New(repo *jobs.Repository, f *filter.Filter) *Fetcher {
	return &Fetcher{repo: repo, filter: f}
}

// Run searches src once. A source failure is returned as an EXTERNAL error and
// nothing is written; a storage failure is returned as is.
func (f *Fetcher) Run(ctx context.Context, src scraper.Source, q scraper.Query) (Summary, error) {
	summary := Summary{Source: src.Name()}

	postings, err := src.Search(ctx, q)
	if err != nil {
		return summary, apperr.External("search on "+src.Name()+" failed", err)
	}
	postings = scraper.Dedupe(postings)
	summary.Fetched = len(postings)
	log.Printf("🔍 %s returned %d postings", src.Name(), len(postings))

	if f.filter != nil {
		var dropped map[string]string
		postings, dropped = f.filter.Apply(postings)
		for job, reason := range dropped {
			log.Printf("🚫 Skipped %s: %s", job, reason)
		}
		summary.Dropped = summary.Fetched - len(postings)
	}

	if len(postings) == 0 {
		log.Println("⚠️ No postings to save")
		return summary, nil
	}

	fresh, err := f.repo.SavePostings(postings)
	if err != nil {
		return summary, err
	}
	summary.Saved = len(postings)
	summary.New = fresh
	log.Printf("💾 Saved %d postings (%d new) to %s", summary.Saved, summary.New, f.repo.Store().Path())
	return summary, nil
}
