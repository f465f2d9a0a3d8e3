// Package scorer rates every unscored job against the résumé and stores the
// result on the job and in the analysis collection.
package scorer

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"go-jobfit-automation/internal/ai"
	"go-jobfit-automation/internal/apperr"
	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/models"
	"go-jobfit-automation/internal/scraper"
)

// FitScorer is satisfied by *ai.FitScorer.
type FitScorer interface {
	Score(ctx context.Context, description, resume string) (ai.Result, error)
}

// ResumeSource is satisfied by *resume.Resume.
type ResumeSource interface {
	Require() error
	Content() string
}

// Notifier is satisfied by *notify.Bot.
type Notifier interface {
	SendJob(ctx context.Context, job models.Job) error
}

type Options struct {
	// Describer fetches descriptions for jobs stored without one.
	Describer scraper.Describer
	Notifier  Notifier
	// NotifyThreshold is the minimum score that triggers a notification.
	NotifyThreshold int
	// Limit caps the jobs scored in one run; 0 means all.
	Limit int
	// Delay is the pause between two jobs.
	Delay time.Duration
}

type Summary struct {
	Candidates int
	Scored     int
	Skipped    int
	Notified   int
}

type Scorer struct {
	jobs     *jobs.Repository
	analyses *jobs.AnalysisRepository
	resume   ResumeSource
	fit      FitScorer
	opts     Options
	limiter  *rate.Limiter
}

func New(jobsRepo *jobs.Repository, analyses *jobs.AnalysisRepository, res ResumeSource, fit FitScorer, opts Options) *Scorer {
	limit := rate.Inf
	if opts.Delay > 0 {
		limit = rate.Every(opts.Delay)
	}
	return &Scorer{
		jobs:     jobsRepo,
		analyses: analyses,
		resume:   res,
		fit:      fit,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Run scores the unscored jobs one by one. A job without a description, or
// whose completion fails or cannot be read, is skipped and stays unscored.
// A storage failure or a cancelled context stops the run.
func (s *Scorer) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	if err := s.resume.Require(); err != nil {
		return summary, err
	}
	resumeText := s.resume.Content()

	candidates := s.jobs.Unscored()
	if s.opts.Limit > 0 && len(candidates) > s.opts.Limit {
		candidates = candidates[:s.opts.Limit]
	}
	summary.Candidates = len(candidates)
	log.Printf("🔍 %d jobs to score", len(candidates))

	for _, job := range candidates {
		if err := s.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		scored, err := s.scoreOne(ctx, job, resumeText)
		if err != nil {
			if ctx.Err() != nil {
				return summary, ctx.Err()
			}
			if apperr.IsKind(err, apperr.KindStorage) || apperr.IsKind(err, apperr.KindConfig) {
				return summary, err
			}
			log.Printf("⚠️ Skipping %s (%s): %v", job.ID, job.Title, err)
			summary.Skipped++
			continue
		}
		if scored == nil {
			summary.Skipped++
			continue
		}
		summary.Scored++
		log.Printf("✅ %s scored %d: %s", scored.ID, *scored.Score, scored.Title)

		if s.shouldNotify(*scored.Score) {
			if err := s.opts.Notifier.SendJob(ctx, *scored); err != nil {
				log.Printf("⚠️ Failed to notify about %s: %v", scored.ID, err)
			} else {
				summary.Notified++
			}
		}
	}

	log.Printf("💾 Scored %d/%d jobs (%d skipped)", summary.Scored, summary.Candidates, summary.Skipped)
	return summary, nil
}

// scoreOne returns the updated job, or nil when the job was skipped without
// an error worth reporting.
func (s *Scorer) scoreOne(ctx context.Context, job models.Job, resumeText string) (*models.Job, error) {
	description, err := s.description(ctx, job)
	if err != nil {
		return nil, err
	}
	if description == "" {
		log.Printf("⚠️ Skipping job %s: no description found", job.ID)
		return nil, nil
	}

	result, err := s.fit.Score(ctx, description, resumeText)
	if err != nil {
		return nil, err
	}

	found, err := s.jobs.UpdateScore(job.ID, result.Score, result.Analysis)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Printf("⚠️ Job %s disappeared before its score was saved", job.ID)
		return nil, nil
	}

	if s.analyses != nil {
		if err := s.analyses.Save(jobs.NewAnalysis(job, result.Score, result.Analysis)); err != nil {
			return nil, err
		}
	}

	updated, ok := s.jobs.Get(job.ID)
	if !ok {
		return nil, errors.New("job vanished after update")
	}
	return &updated, nil
}

// description returns the stored description or fetches and stores it.
func (s *Scorer) description(ctx context.Context, job models.Job) (string, error) {
	if text := strings.TrimSpace(job.Description); text != "" {
		return text, nil
	}
	if s.opts.Describer == nil || job.URL == "" {
		return "", nil
	}

	text, err := s.opts.Describer.Describe(ctx, job.URL)
	if err != nil {
		return "", apperr.External("could not fetch description", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if _, err := s.jobs.UpdateDescription(job.ID, text); err != nil {
		return "", err
	}
	return text, nil
}

func (s *Scorer) shouldNotify(score int) bool {
	return s.opts.Notifier != nil && s.opts.NotifyThreshold > 0 && score >= s.opts.NotifyThreshold
}
