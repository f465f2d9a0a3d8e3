package jobs

import (
	"go-jobfit-automation/internal/store"
)

// Jobs collection columns.
const (
	ColJobID            = "job_id"
	ColTitle            = "title"
	ColCompany          = "company"
	ColSource           = "source"
	ColLocation         = "location"
	ColSalary           = "salary"
	ColLink             = "link"
	ColPostedAt         = "posted_at"
	ColFirstSeen        = "first_seen"
	ColLastFetched      = "last_fetched"
	ColApplied          = "applied"
	ColDateApplied      = "date_applied"
	ColScore            = "score"
	ColDateScoreUpdated = "date_score_updated"
	ColScoreAnalysis    = "score_analysis"
	ColQualifications   = "qualifications"
	ColSummary          = "summary"
	ColDescription      = "description"
)

var JobSchema = store.Schema{
	Key: ColJobID,
	Columns: []string{
		ColJobID, ColTitle, ColCompany, ColSource, ColLocation, ColSalary, ColLink, ColPostedAt,
		ColFirstSeen, ColLastFetched, ColApplied, ColDateApplied,
		ColScore, ColDateScoreUpdated, ColScoreAnalysis,
		ColQualifications, ColSummary, ColDescription,
	},
	FirstSeen:   ColFirstSeen,
	LastFetched: ColLastFetched,
}

// Analysis collection columns.
const (
	ColAnalysisJobID          = "job_id"
	ColAnalysisTitle          = "job_title"
	ColAnalysisSummary        = "job_summary"
	ColAnalysisSource         = "job_source"
	ColAnalysisURL            = "job_url"
	ColAnalysisLocation       = "job_location"
	ColAnalysisSalaryRange    = "job_salary_range"
	ColAnalysisQualifications = "job_qualifications"
	ColAnalysisPostedAt       = "job_posted_at"
	ColAnalysisMatchScore     = "match_score"
	ColAnalysisText           = "analysis"
	ColAnalysisAnalyzedAt     = "analyzed_at"
)

var AnalysisSchema = store.Schema{
	Key: ColAnalysisJobID,
	Columns: []string{
		ColAnalysisJobID, ColAnalysisTitle, ColAnalysisSummary, ColAnalysisSource, ColAnalysisURL,
		ColAnalysisLocation, ColAnalysisSalaryRange, ColAnalysisQualifications, ColAnalysisPostedAt,
		ColAnalysisMatchScore, ColAnalysisText, ColAnalysisAnalyzedAt,
	},
}
