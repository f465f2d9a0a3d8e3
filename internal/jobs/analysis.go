package jobs

import (
	"fmt"
	"time"

	"go-jobfit-automation/internal/models"
	"go-jobfit-automation/internal/store"
)

// AnalysisRepository keeps one analysis row per job, replaced on every rescoring.
type AnalysisRepository struct {
	store *store.Store
	now   func() time.Time
}

func OpenAnalysis(folder, file string, opts ...store.Option) (*AnalysisRepository, error) {
	if file == "" {
		file = DefaultAnalysisFile
	}
	s, err := store.New(folder, file, AnalysisSchema, opts...)
	if err != nil {
		return nil, err
	}
	return NewAnalysisRepository(s), nil
}

func NewAnalysisRepository(s *store.Store) *AnalysisRepository {
	return &AnalysisRepository{store: s, now: time.Now}
}

func (r *AnalysisRepository) Store() *store.Store {
	return r.store
}

// NewAnalysis builds the analysis row for a scored job.
func NewAnalysis(job models.Job, score int, text string) models.Analysis {
	return models.Analysis{
		JobID:          job.ID,
		Title:          job.Title,
		Summary:        job.Summary,
		Source:         job.Source,
		URL:            job.URL,
		Location:       job.Location,
		SalaryRange:    job.Salary,
		Qualifications: job.Qualifications,
		PostedAt:       job.PostedAt,
		MatchScore:     ClampScore(score),
		Analysis:       text,
	}
}

// Save replaces any previous analysis of the same job. A zero AnalyzedAt is
// stamped with the current time.
func (r *AnalysisRepository) Save(a models.Analysis) error {
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = r.now()
	}
	rec := store.Record{
		ColAnalysisJobID:          a.JobID,
		ColAnalysisTitle:          a.Title,
		ColAnalysisSummary:        a.Summary,
		ColAnalysisSource:         a.Source,
		ColAnalysisURL:            a.URL,
		ColAnalysisLocation:       a.Location,
		ColAnalysisSalaryRange:    a.SalaryRange,
		ColAnalysisQualifications: a.Qualifications,
		ColAnalysisPostedAt:       a.PostedAt,
		ColAnalysisMatchScore:     ClampScore(a.MatchScore),
		ColAnalysisText:           a.Analysis,
		ColAnalysisAnalyzedAt:     a.AnalyzedAt,
	}
	if err := r.store.Create([]store.Record{rec}); err != nil {
		return fmt.Errorf("failed to save analysis for job %s: %w", a.JobID, err)
	}
	return nil
}

func (r *AnalysisRepository) Get(jobID string) (models.Analysis, bool) {
	rec, ok := r.store.GetByID(jobID)
	if !ok {
		return models.Analysis{}, false
	}
	a := models.Analysis{
		JobID:          rec.String(ColAnalysisJobID),
		Title:          rec.String(ColAnalysisTitle),
		Summary:        rec.String(ColAnalysisSummary),
		Source:         rec.String(ColAnalysisSource),
		URL:            rec.String(ColAnalysisURL),
		Location:       rec.String(ColAnalysisLocation),
		SalaryRange:    rec.String(ColAnalysisSalaryRange),
		Qualifications: rec.String(ColAnalysisQualifications),
		PostedAt:       rec.String(ColAnalysisPostedAt),
		Analysis:       rec.String(ColAnalysisText),
	}
	if score, ok := rec.Int(ColAnalysisMatchScore); ok {
		a.MatchScore = score
	}
	if ts, err := time.Parse(time.RFC3339, rec.String(ColAnalysisAnalyzedAt)); err == nil {
		a.AnalyzedAt = ts
	}
	return a, true
}

func (r *AnalysisRepository) All() []models.Analysis {
	var out []models.Analysis
	for _, rec := range r.store.Read(nil) {
		if a, ok := r.Get(rec.String(ColAnalysisJobID)); ok {
			out = append(out, a)
		}
	}
	return out
}
