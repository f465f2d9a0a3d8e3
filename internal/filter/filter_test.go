package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/models"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "developpeur senior", NormalizeText("  Développeur   SENIOR "))
	assert.Equal(t, "ho chi minh", NormalizeText("Hồ Chí Minh"))
}

func TestFilterAllow(t *testing.T) {
	f := New(config.FilterConfig{ExcludeKeywords: []string{"Senior", "lead", ""}, MaxAgeDays: 30})
	f.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		posting models.Posting
		want    bool
	}{
		{"plain", models.Posting{Title: "Go Developer", PostedAt: "2 days ago"}, true},
		{"excluded title", models.Posting{Title: "Sénior Go Developer"}, false},
		{"excluded word boundary", models.Posting{Title: "Leading platform team"}, true},
		{"excluded company", models.Posting{Title: "Engineer", Company: "Lead Inc"}, false},
		{"too old", models.Posting{Title: "Go Developer", PostedAt: "2025-12-01"}, false},
		{"old relative", models.Posting{Title: "Go Developer", PostedAt: "30+ days ago"}, true},
		{"older relative", models.Posting{Title: "Go Developer", PostedAt: "2 months ago"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := f.Allow(tt.posting)
			assert.Equal(t, tt.want, got, reason)
		})
	}
}

func TestFilterApply(t *testing.T) {
	f := New(config.FilterConfig{ExcludeKeywords: []string{"intern"}})
	kept, dropped := f.Apply([]models.Posting{
		{Title: "Go Intern", Company: "A"},
		{Title: "Go Engineer", Company: "B"},
	})
	assert.Len(t, kept, 1)
	assert.Equal(t, "Go Engineer", kept[0].Title)
	assert.Equal(t, map[string]string{"Go Intern @ A": "excluded keyword 'intern'"}, dropped)
}

func TestIsRecentJob(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sixty := 60 * 24 * time.Hour

	tests := []struct {
		date string
		want bool
	}{
		{"", true},
		{"Just posted", true},
		{"2026-02-20", true},
		{"2025-11-01T10:00:00Z", false},
		{"2026-03-10", false},
		{"15/02/2026", true},
		{"01/10/2025", false},
		{"5 hours ago", true},
		{"3 weeks ago", true},
		{"3 months ago", false},
		{"Posted in 2025", true},
		{"Posted in 2023", false},
		{"whenever", true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRecentJob(tt.date, now, sixty))
		})
	}
}
