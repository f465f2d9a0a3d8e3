package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobfit-automation/internal/models"
)

func intPtr(v int) *int { return &v }

func TestHTML(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)
	g.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }

	jobs := []models.Job{
		{Posting: models.Posting{ID: "low", Title: "PHP Dev"}, Score: intPtr(20)},
		{Posting: models.Posting{ID: "none", Title: "Unscored"}},
		{Posting: models.Posting{ID: "mid", Title: "Backend <Go>", Company: "Beta"}, Score: intPtr(65)},
		{Posting: models.Posting{ID: "high", Title: "Go Developer", Company: "Acme", URL: "https://x/high"}, Score: intPtr(92), ScoreAnalysis: "Strong match"},
	}

	out, err := g.HTML(jobs, 50)
	require.NoError(t, err)
	html := string(out)

	assert.Contains(t, html, "Generated 2026-05-04 09:30")
	assert.Contains(t, html, "2 jobs")
	assert.Contains(t, html, `<a href="https://x/high">Go Developer</a>`)
	assert.Contains(t, html, `class="score high">92/100`)
	assert.Contains(t, html, `class="score mid">65/100`)
	assert.Contains(t, html, "Backend &lt;Go&gt;")
	assert.Contains(t, html, "Strong match")
	assert.NotContains(t, html, "PHP Dev")
	assert.NotContains(t, html, "Unscored")
	assert.Less(t, strings.Index(html, "Go Developer"), strings.Index(html, "Backend"))
}

func TestHTMLEmpty(t *testing.T) {
	g, err := NewGenerator()
	require.NoError(t, err)

	out, err := g.HTML(nil, 0)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No scored jobs yet.")
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "jobs.html")
	require.NoError(t, SaveToFile([]byte("<html></html>"), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}
