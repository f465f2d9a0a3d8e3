// Package jobs configures the generic record store for the two collections the
// pipelines use: scraped jobs and their score analyses.
package jobs

import (
	"fmt"
	"log"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"go-jobfit-automation/internal/models"
	"go-jobfit-automation/internal/store"
)

const (
	DefaultJobsFile     = "job_data.csv"
	DefaultAnalysisFile = "analysis.csv"
)

type Repository struct {
	store *store.Store
	now   func() time.Time
}

// Open loads (or creates) the jobs collection in folder/file.
func Open(folder, file string, opts ...store.Option) (*Repository, error) {
	if file == "" {
		file = DefaultJobsFile
	}
	s, err := store.New(folder, file, JobSchema, opts...)
	if err != nil {
		return nil, err
	}
	return NewRepository(s), nil
}

func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s, now: time.Now}
}

func (r *Repository) Store() *store.Store {
	return r.store
}

// PostingID returns the posting's own identity, or a stable id derived from
// its link when the source did not provide one.
func PostingID(p models.Posting) (string, error) {
	if p.ID != "" {
		return p.ID, nil
	}
	if p.URL == "" {
		return "", fmt.Errorf("posting %q has neither id nor link", p.Title)
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.URL)).String(), nil
}

// postingRecord leaves out empty optional fields so a listing page that lacks
// them does not erase what an earlier fetch or the scorer stored.
func postingRecord(id string, p models.Posting) store.Record {
	rec := store.Record{
		ColJobID:    id,
		ColTitle:    p.Title,
		ColCompany:  p.Company,
		ColSource:   p.Source,
		ColLocation: p.Location,
		ColLink:     p.URL,
	}
	optional := map[string]string{
		ColSalary:         p.Salary,
		ColPostedAt:       p.PostedAt,
		ColQualifications: p.Qualifications,
		ColSummary:        p.Summary,
		ColDescription:    p.Description,
	}
	for col, v := range optional {
		if v != "" {
			rec[col] = v
		}
	}
	return rec
}

// SavePostings upserts the postings and reports how many identities were new.
// Postings without any usable identity are skipped.
func (r *Repository) SavePostings(postings []models.Posting) (int, error) {
	records := make([]store.Record, 0, len(postings))
	fresh := mapset.NewThreadUnsafeSet[string]()
	for _, p := range postings {
		id, err := PostingID(p)
		if err != nil {
			log.Printf("⚠️ Skipping posting: %v", err)
			continue
		}
		if _, exists := r.store.GetByID(id); !exists {
			fresh.Add(id)
		}
		records = append(records, postingRecord(id, p))
	}
	if err := r.store.Create(records); err != nil {
		return 0, fmt.Errorf("failed to save postings: %w", err)
	}
	return fresh.Cardinality(), nil
}

func (r *Repository) All() []models.Job {
	return toJobs(r.store.Read(nil))
}

// Unscored returns the jobs whose score cell is still empty.
func (r *Repository) Unscored() []models.Job {
	return toJobs(r.store.Read(map[string]any{ColScore: nil}))
}

func (r *Repository) Find(filters map[string]any) []models.Job {
	return toJobs(r.store.Read(filters))
}

func (r *Repository) Get(id string) (models.Job, bool) {
	rec, ok := r.store.GetByID(id)
	if !ok {
		return models.Job{}, false
	}
	return toJob(rec), true
}

// UpdateScore stores a clamped score, its rationale and the scoring time in a
// single update.
func (r *Repository) UpdateScore(id string, score int, analysis string) (bool, error) {
	return r.store.Update(id, map[string]any{
		ColScore:            ClampScore(score),
		ColScoreAnalysis:    analysis,
		ColDateScoreUpdated: r.now().Format(time.RFC3339),
	})
}

func (r *Repository) UpdateDescription(id, description string) (bool, error) {
	return r.store.Update(id, map[string]any{ColDescription: description})
}

func (r *Repository) MarkApplied(id string) (bool, error) {
	return r.store.Update(id, map[string]any{
		ColApplied:     true,
		ColDateApplied: r.now().Format(store.DefaultDateLayout),
	})
}

func (r *Repository) Delete(id string) (bool, error) {
	return r.store.Delete(id)
}

// ClampScore bounds a match score to [0, 100].
func ClampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func toJobs(recs []store.Record) []models.Job {
	out := make([]models.Job, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toJob(rec))
	}
	return out
}

func toJob(rec store.Record) models.Job {
	job := models.Job{
		Posting: models.Posting{
			ID:             rec.String(ColJobID),
			Title:          rec.String(ColTitle),
			Company:        rec.String(ColCompany),
			Source:         rec.String(ColSource),
			Location:       rec.String(ColLocation),
			Salary:         rec.String(ColSalary),
			URL:            rec.String(ColLink),
			PostedAt:       rec.String(ColPostedAt),
			Qualifications: rec.String(ColQualifications),
			Summary:        rec.String(ColSummary),
			Description:    rec.String(ColDescription),
		},
		FirstSeen:        rec.String(ColFirstSeen),
		LastFetched:      rec.String(ColLastFetched),
		DateApplied:      rec.String(ColDateApplied),
		DateScoreUpdated: rec.String(ColDateScoreUpdated),
		ScoreAnalysis:    rec.String(ColScoreAnalysis),
	}
	if applied, ok := rec.Bool(ColApplied); ok {
		job.Applied = applied
	}
	if score, ok := rec.Int(ColScore); ok {
		job.Score = &score
	}
	return job
}
