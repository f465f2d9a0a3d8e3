package filter

import (
	"regexp"
	"strings"
	"time"

	"go-jobfit-automation/internal/config"
	"go-jobfit-automation/internal/models"
)

// Filter drops postings before they are stored.
type Filter struct {
	exclude []*regexp.Regexp
	words   []string
	maxAge  time.Duration
	now     func() time.Time
}

func New(cfg config.FilterConfig) *Filter {
	f := &Filter{now: time.Now}
	for _, kw := range cfg.ExcludeKeywords {
		kw = NormalizeText(kw)
		if kw == "" {
			continue
		}
		f.words = append(f.words, kw)
		f.exclude = append(f.exclude, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	if cfg.MaxAgeDays > 0 {
		f.maxAge = time.Duration(cfg.MaxAgeDays) * 24 * time.Hour
	}
	return f
}

// Allow reports whether p should be kept, and why not when it is dropped.
func (f *Filter) Allow(p models.Posting) (bool, string) {
	text := NormalizeText(p.Title + " " + p.Company)
	for i, re := range f.exclude {
		if re.MatchString(text) {
			return false, "excluded keyword '" + f.words[i] + "'"
		}
	}

	if f.maxAge > 0 && !IsRecentJob(p.PostedAt, f.now(), f.maxAge) {
		return false, "posted " + strings.TrimSpace(p.PostedAt)
	}
	return true, ""
}

// Apply returns the postings that pass the filter, keeping their order.
func (f *Filter) Apply(postings []models.Posting) ([]models.Posting, map[string]string) {
	kept := make([]models.Posting, 0, len(postings))
	dropped := make(map[string]string)
	for _, p := range postings {
		if ok, reason := f.Allow(p); ok {
			kept = append(kept, p)
		} else {
			dropped[p.Title+" @ "+p.Company] = reason
		}
	}
	return kept, dropped
}
