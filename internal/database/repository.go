// Package database mirrors the job and analysis collections into Postgres so
// they can be queried with SQL. The CSV files stay the source of truth.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobfit-automation/internal/apperr"
	"go-jobfit-automation/internal/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, apperr.Config("unable to parse database url", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Poolers in transaction mode (Supabase, PgBouncer) reject prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, apperr.External("unable to connect to database", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, apperr.External("database unreachable", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Repository) Version(ctx context.Context) (string, error) {
	var version string
	if err := r.db.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	return version, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
	job_id             TEXT PRIMARY KEY,
	title              TEXT NOT NULL,
	company            TEXT,
	source             TEXT,
	location           TEXT,
	salary             TEXT,
	link               TEXT,
	posted_at          TEXT,
	first_seen         TEXT,
	last_fetched       TEXT,
	applied            BOOLEAN NOT NULL DEFAULT FALSE,
	date_applied       TEXT,
	score              INTEGER,
	date_score_updated TEXT,
	score_analysis     TEXT,
	qualifications     TEXT,
	summary            TEXT,
	description        TEXT,
	synced_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS job_analyses (
	job_id       TEXT PRIMARY KEY,
	job_title    TEXT,
	job_source   TEXT,
	job_url      TEXT,
	job_location TEXT,
	match_score  INTEGER NOT NULL,
	analysis     TEXT,
	analyzed_at  TIMESTAMPTZ,
	synced_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// EnsureSchema creates the mirror tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return apperr.Storage("failed to create mirror schema", err)
	}
	return nil
}

const upsertJobSQL = `
INSERT INTO jobs (job_id, title, company, source, location, salary, link, posted_at,
	first_seen, last_fetched, applied, date_applied, score, date_score_updated,
	score_analysis, qualifications, summary, description, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, now())
ON CONFLICT (job_id)
DO UPDATE SET title = EXCLUDED.title, company = EXCLUDED.company, source = EXCLUDED.source,
	location = EXCLUDED.location, salary = EXCLUDED.salary, link = EXCLUDED.link,
	posted_at = EXCLUDED.posted_at, first_seen = EXCLUDED.first_seen,
	last_fetched = EXCLUDED.last_fetched, applied = EXCLUDED.applied,
	date_applied = EXCLUDED.date_applied, score = EXCLUDED.score,
	date_score_updated = EXCLUDED.date_score_updated, score_analysis = EXCLUDED.score_analysis,
	qualifications = EXCLUDED.qualifications, summary = EXCLUDED.summary,
	description = EXCLUDED.description, synced_at = now()`

func jobArgs(job models.Job) []any {
	var score any
	if job.Score != nil {
		score = *job.Score
	}
	return []any{
		job.ID,
		job.Title,
		nullIfEmpty(job.Company),
		nullIfEmpty(job.Source),
		nullIfEmpty(job.Location),
		nullIfEmpty(job.Salary),
		nullIfEmpty(job.URL),
		nullIfEmpty(job.PostedAt),
		nullIfEmpty(job.FirstSeen),
		nullIfEmpty(job.LastFetched),
		job.Applied,
		nullIfEmpty(job.DateApplied),
		score,
		nullIfEmpty(job.DateScoreUpdated),
		nullIfEmpty(job.ScoreAnalysis),
		nullIfEmpty(job.Qualifications),
		nullIfEmpty(job.Summary),
		nullIfEmpty(job.Description),
	}
}

const upsertAnalysisSQL = `
INSERT INTO job_analyses (job_id, job_title, job_source, job_url, job_location,
	match_score, analysis, analyzed_at, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
ON CONFLICT (job_id)
DO UPDATE SET job_title = EXCLUDED.job_title, job_source = EXCLUDED.job_source,
	job_url = EXCLUDED.job_url, job_location = EXCLUDED.job_location,
	match_score = EXCLUDED.match_score, analysis = EXCLUDED.analysis,
	analyzed_at = EXCLUDED.analyzed_at, synced_at = now()`

func analysisArgs(a models.Analysis) []any {
	var analyzedAt any
	if !a.AnalyzedAt.IsZero() {
		analyzedAt = a.AnalyzedAt
	}
	return []any{
		a.JobID,
		nullIfEmpty(a.Title),
		nullIfEmpty(a.Source),
		nullIfEmpty(a.URL),
		nullIfEmpty(a.Location),
		a.MatchScore,
		nullIfEmpty(a.Analysis),
		analyzedAt,
	}
}

// SyncJobs upserts every job in one batch and returns how many rows were written.
func (r *Repository) SyncJobs(ctx context.Context, jobs []models.Job) (int, error) {
	batch := &pgx.Batch{}
	for _, job := range jobs {
		if job.ID == "" {
			continue
		}
		batch.Queue(upsertJobSQL, jobArgs(job)...)
	}
	return r.sendBatch(ctx, batch, "jobs")
}

// SyncAnalyses upserts every analysis in one batch.
func (r *Repository) SyncAnalyses(ctx context.Context, analyses []models.Analysis) (int, error) {
	batch := &pgx.Batch{}
	for _, a := range analyses {
		if a.JobID == "" {
			continue
		}
		batch.Queue(upsertAnalysisSQL, analysisArgs(a)...)
	}
	return r.sendBatch(ctx, batch, "job_analyses")
}

func (r *Repository) sendBatch(ctx context.Context, batch *pgx.Batch, table string) (int, error) {
	if batch.Len() == 0 {
		return 0, nil
	}
	br := r.db.SendBatch(ctx, batch)
	written := 0
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return written, apperr.Storage(fmt.Sprintf("failed to sync %s row %d", table, i), err)
		}
		written++
	}
	if err := br.Close(); err != nil {
		return written, apperr.Storage("failed to sync "+table, err)
	}
	return written, nil
}

// CountJobs returns the number of mirrored jobs, scored or not.
func (r *Repository) CountJobs(ctx context.Context) (total, scored int, err error) {
	err = r.db.QueryRow(ctx, "SELECT count(*), count(score) FROM jobs").Scan(&total, &scored)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return total, scored, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
