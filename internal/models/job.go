package models

import (
	"time"
)

// Posting is one job posting as returned by a job source.
type Posting struct {
	ID             string `json:"job_id"`
	Title          string `json:"title"`
	Company        string `json:"company"`
	Source         string `json:"source"`
	Location       string `json:"location"`
	Salary         string `json:"salary,omitempty"`
	URL            string `json:"link"`
	Qualifications string `json:"qualifications,omitempty"`
	Summary        string `json:"summary,omitempty"`
	Description    string `json:"description,omitempty"`
	PostedAt       string `json:"posted_at,omitempty"`
}

// Job is a stored posting together with its tracking and scoring state.
type Job struct {
	Posting
	FirstSeen        string `json:"first_seen"`
	LastFetched      string `json:"last_fetched"`
	Applied          bool   `json:"applied"`
	DateApplied      string `json:"date_applied,omitempty"`
	Score            *int   `json:"score,omitempty"`
	DateScoreUpdated string `json:"date_score_updated,omitempty"`
	ScoreAnalysis    string `json:"score_analysis,omitempty"`
}

func (j Job) Scored() bool {
	return j.Score != nil
}

// Analysis is one scoring result kept in the analysis collection.
type Analysis struct {
	JobID          string    `json:"job_id"`
	Title          string    `json:"job_title"`
	Summary        string    `json:"job_summary,omitempty"`
	Source         string    `json:"job_source"`
	URL            string    `json:"job_url"`
	Location       string    `json:"job_location"`
	SalaryRange    string    `json:"job_salary_range,omitempty"`
	Qualifications string    `json:"job_qualifications"`
	PostedAt       string    `json:"job_posted_at"`
	MatchScore     int       `json:"match_score"`
	Analysis       string    `json:"analysis"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}
