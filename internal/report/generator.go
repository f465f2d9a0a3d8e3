// Package report renders scored jobs as an HTML page and prints it to PDF
// with the headless browser.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobfit-automation/internal/models"
)

//go:embed templates/report.html
var templates embed.FS

// PageOpener is satisfied by *browser.Manager.
type PageOpener interface {
	NewPage(site string) (playwright.Page, func(), error)
}

// Generator turns a job list into an HTML or PDF report.
type Generator struct {
	tmpl *template.Template
	now  func() time.Time
}

func NewGenerator() (*Generator, error) {
	funcMap := template.FuncMap{
		"scoreText": func(score *int) string {
			if score == nil {
				return "–"
			}
			return fmt.Sprintf("%d/100", *score)
		},
		"scoreClass": func(score *int) string {
			switch {
			case score == nil:
				return ""
			case *score >= 80:
				return "high"
			case *score >= 50:
				return "mid"
			default:
				return "low"
			}
		},
	}

	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(templates, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &Generator{tmpl: tmpl, now: time.Now}, nil
}

type reportData struct {
	Title       string
	GeneratedAt time.Time
	Jobs        []models.Job
}

// HTML renders the scored jobs with at least minScore, best first.
func (g *Generator) HTML(jobs []models.Job, minScore int) ([]byte, error) {
	selected := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if job.Score != nil && *job.Score >= minScore {
			selected = append(selected, job)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return *selected[i].Score > *selected[j].Score
	})

	var buf bytes.Buffer
	data := reportData{
		Title:       "Job fit report",
		GeneratedAt: g.now(),
		Jobs:        selected,
	}
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// PDF prints rendered HTML to an A4 PDF.
func (g *Generator) PDF(opener PageOpener, html []byte) ([]byte, error) {
	page, closePage, err := opener.NewPage("")
	if err != nil {
		return nil, err
	}
	defer closePage()

	if err := page.SetContent(string(html), playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("10mm"),
			Right:  playwright.String("10mm"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}
	return pdfBytes, nil
}

// SaveToFile writes data to outputPath, creating its folder.
func SaveToFile(data []byte, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	return os.WriteFile(outputPath, data, 0644)
}
