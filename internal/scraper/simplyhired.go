package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/playwright-community/playwright-go"

	"go-jobfit-automation/internal/browser"
	"go-jobfit-automation/internal/models"
)

const (
	SimplyHiredName    = "SimplyHired"
	simplyHiredBaseURL = "https://www.simplyhired.com"
)

// card selectors for the SimplyHired result list
const (
	cardSelector     = `[data-testid="searchSerpJob"], li div[data-jobkey]`
	titleSelector    = `[data-testid="searchSerpJobTitle"] a, h2 a`
	companySelector  = `[data-testid="companyName"]`
	locationSelector = `[data-testid="searchSerpJobLocation"]`
	salarySelector   = `[data-testid="searchSerpJobSalaryEst"], [data-testid="searchSerpJobSalaryConfirmed"]`
	dateSelector     = `[data-testid="searchSerpJobDateStamp"]`
	snippetSelector  = `[data-testid="searchSerpJobSnippet"]`
	nextSelector     = `a[data-testid="pageNumberBlockNext"]`
)

// Pager opens pages for a site. *browser.Manager satisfies it.
type Pager interface {
	NewPage(site string) (playwright.Page, func(), error)
	Screenshots() *browser.ScreenshotDebugger
}

type SimplyHiredSource struct {
	pager Pager
}

func NewSimplyHiredSource(pager Pager) *SimplyHiredSource {
	return &SimplyHiredSource{pager: pager}
}

func (s *SimplyHiredSource) Name() string {
	return SimplyHiredName
}

// SearchURL builds the first result page for q.
func SearchURL(q Query) string {
	v := url.Values{}
	v.Set("q", strings.TrimSpace(q.Keywords))
	if loc := strings.TrimSpace(q.Location); loc != "" {
		v.Set("l", loc)
	}
	return simplyHiredBaseURL + "/search?" + v.Encode()
}

func (s *SimplyHiredSource) Search(ctx context.Context, q Query) ([]models.Posting, error) {
	log.Printf("📋 Searching %s for '%s' in '%s'...", SimplyHiredName, q.Keywords, q.Location)

	page, closePage, err := s.pager.NewPage("simplyhired")
	if err != nil {
		return nil, err
	}
	defer closePage()
	screenshots := s.pager.Screenshots()

	maxPages := q.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var all []models.Posting
	next := SearchURL(q)
	for pageNum := 1; pageNum <= maxPages && next != ""; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Printf("  🔍 Page %d: %s", pageNum, next)
		if _, err := page.Goto(next, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		}); err != nil {
			if pageNum == 1 {
				return nil, fmt.Errorf("error navigating to %s: %w", next, err)
			}
			log.Printf("⚠️ Error navigating to %s: %v", next, err)
			break
		}

		title, _ := page.Title()
		if isBlocked(title) {
			_ = screenshots.CaptureAndLog(page, "simplyhired-blocked", "🚨 SimplyHired: challenge page detected")
			if pageNum == 1 {
				return nil, fmt.Errorf("blocked by challenge page %q", title)
			}
			break
		}

		//human behavior
		if err := browser.RandomDelay(ctx, 1000, 2000); err != nil {
			return nil, err
		}
		if err := browser.MouseJiggle(ctx, page); err != nil {
			log.Printf("⚠️ Mouse jiggle failed: %v", err)
		}
		if err := browser.SmoothScroll(ctx, page); err != nil {
			log.Printf("⚠️ Scroll failed: %v", err)
		}

		cards, err := page.Locator(cardSelector).All()
		if err != nil {
			return nil, fmt.Errorf("error finding job cards: %w", err)
		}
		if len(cards) == 0 {
			_ = screenshots.CaptureAndLog(page, "simplyhired-empty", "🚨 SimplyHired: no job cards found")
			break
		}
		log.Printf("    📦 Found %d job cards", len(cards))

		for _, el := range cards {
			p, ok := readCard(el).toPosting()
			if !ok {
				continue
			}
			all = append(all, p)
			log.Printf("      ✅ %s - %s", p.Title, p.Company)
		}

		next = ""
		if href, err := page.Locator(nextSelector).First().GetAttribute("href", playwright.LocatorGetAttributeOptions{
			Timeout: playwright.Float(1000),
		}); err == nil {
			next = absoluteURL(href)
		}
	}

	return Dedupe(all), nil
}

// card is the raw text read from one search result.
type card struct {
	JobKey   string
	Title    string
	Href     string
	Company  string
	Location string
	Salary   string
	Posted   string
	Snippet  string
}

func readCard(loc playwright.Locator) card {
	c := card{}
	c.JobKey, _ = loc.GetAttribute("data-jobkey", quickAttr)
	if c.JobKey == "" {
		c.JobKey, _ = loc.Locator("[data-jobkey]").First().GetAttribute("data-jobkey", quickAttr)
	}
	titleEl := loc.Locator(titleSelector).First()
	c.Title = text(titleEl)
	c.Href, _ = titleEl.GetAttribute("href", quickAttr)
	c.Company = text(loc.Locator(companySelector).First())
	c.Location = text(loc.Locator(locationSelector).First())
	c.Salary = text(loc.Locator(salarySelector).First())
	c.Posted = text(loc.Locator(dateSelector).First())
	c.Snippet = text(loc.Locator(snippetSelector).First())
	return c
}

var quickAttr = playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(100)}

func text(loc playwright.Locator) string {
	s, err := loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(100),
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (c card) toPosting() (models.Posting, bool) {
	title := clean(c.Title)
	link := absoluteURL(c.Href)
	if title == "" || link == "" {
		return models.Posting{}, false
	}

	id := strings.TrimSpace(c.JobKey)
	if id == "" {
		id = jobKeyFromURL(link)
	}
	return models.Posting{
		ID:       id,
		Title:    title,
		Company:  clean(c.Company),
		Source:   SimplyHiredName,
		Location: clean(c.Location),
		Salary:   cleanSalary(c.Salary),
		URL:      link,
		Summary:  clean(c.Snippet),
		PostedAt: clean(c.Posted),
	}, true
}

// jobKeyFromURL reads the key from /job/<key> links.
func jobKeyFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if rest, ok := strings.CutPrefix(u.Path, "/job/"); ok {
		return strings.Trim(rest, "/")
	}
	return ""
}

func absoluteURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, _ := url.Parse(simplyHiredBaseURL)
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanSalary(s string) string {
	s = clean(s)
	s = strings.TrimPrefix(s, "Estimated: ")
	return strings.TrimSpace(s)
}

func isBlocked(title string) bool {
	return strings.Contains(title, "Attention Required") ||
		strings.Contains(title, "Just a moment") ||
		strings.Contains(title, "Cloudflare")
}
