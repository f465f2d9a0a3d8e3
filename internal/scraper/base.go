// Sources turn a search query into postings.
// Describers turn a posting URL into description text.

package scraper

import (
	"context"

	"go-jobfit-automation/internal/models"
)

// Query is the search input shared by every source.
type Query struct {
	Keywords string
	Location string
	MaxPages int
}

// Source defines the interface a job board implements.
type Source interface {
	Search(ctx context.Context, q Query) ([]models.Posting, error)

	//Name is the board name (SimplyHired, ...)
	Name() string
}

// Describer fetches the full description of one posting.
type Describer interface {
	Describe(ctx context.Context, url string) (string, error)
}

// Dedupe keeps the first posting for each id, or for each URL when the id is
// empty, preserving order.
func Dedupe(postings []models.Posting) []models.Posting {
	unique := make([]models.Posting, 0, len(postings))
	seen := make(map[string]bool)
	for _, p := range postings {
		key := p.ID
		if key == "" {
			key = p.URL
		}
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}
	return unique
}
