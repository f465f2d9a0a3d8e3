package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobfit-automation/internal/models"
)

func TestSearchURL(t *testing.T) {
	got := SearchURL(Query{Keywords: " Go Developer ", Location: "Remote"})
	assert.Equal(t, "https://www.simplyhired.com/search?l=Remote&q=Go+Developer", got)

	got = SearchURL(Query{Keywords: "golang"})
	assert.Equal(t, "https://www.simplyhired.com/search?q=golang", got)
}

func TestCardToPosting(t *testing.T) {
	tests := []struct {
		name string
		card card
		want models.Posting
		ok   bool
	}{
		{
			name: "full card",
			card: card{
				JobKey:   "abc123",
				Title:    "  Senior   Go Engineer ",
				Href:     "/job/abc123?from=serp",
				Company:  "Acme",
				Location: "Remote",
				Salary:   "Estimated: $120K - $150K a year",
				Posted:   "3d",
				Snippet:  "Build  services",
			},
			want: models.Posting{
				ID:       "abc123",
				Title:    "Senior Go Engineer",
				Company:  "Acme",
				Source:   SimplyHiredName,
				Location: "Remote",
				Salary:   "$120K - $150K a year",
				URL:      "https://www.simplyhired.com/job/abc123?from=serp",
				Summary:  "Build services",
				PostedAt: "3d",
			},
			ok: true,
		},
		{
			name: "key from link",
			card: card{Title: "Go Dev", Href: "https://www.simplyhired.com/job/xyz"},
			want: models.Posting{
				ID:     "xyz",
				Title:  "Go Dev",
				Source: SimplyHiredName,
				URL:    "https://www.simplyhired.com/job/xyz",
			},
			ok: true,
		},
		{name: "no title", card: card{Href: "/job/1"}},
		{name: "no link", card: card{Title: "Go Dev"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.card.toPosting()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDedupe(t *testing.T) {
	in := []models.Posting{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "second"},
		{URL: "https://x/1"},
		{URL: "https://x/1"},
	}
	out := Dedupe(in)
	assert.Len(t, out, 3)
	assert.Equal(t, "first", out[0].Title)
}

func TestIsBlocked(t *testing.T) {
	assert.True(t, isBlocked("Just a moment..."))
	assert.True(t, isBlocked("Attention Required! | Cloudflare"))
	assert.False(t, isBlocked("Go Developer Jobs | SimplyHired"))
}

func TestDescriberToText(t *testing.T) {
	d := &PageDescriber{mdConverter: newConverter()}

	got := d.toText(`<div><h2>About</h2><p>Write <strong>Go</strong> code.</p><ul><li>gRPC</li><li>Postgres</li></ul></div>`, "https://www.simplyhired.com/job/1")
	assert.Contains(t, got, "## About")
	assert.Contains(t, got, "Write **Go** code.")
	assert.Contains(t, got, "- gRPC")

	assert.Equal(t, "", d.toText("<div>   </div>", "https://www.simplyhired.com/job/1"))
}
