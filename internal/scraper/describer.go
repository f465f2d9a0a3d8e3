package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/playwright-community/playwright-go"
)

// DescribeTimeout bounds the navigation to one posting page.
const DescribeTimeout = 60 * time.Second

// PageDescriber reads the description panel of a posting page.
type PageDescriber struct {
	pager       Pager
	selector    string
	mdConverter *converter.Converter
}

func NewPageDescriber(pager Pager) *PageDescriber {
	return &PageDescriber{
		pager:       pager,
		selector:    "aside",
		mdConverter: newConverter(),
	}
}

func newConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
}

// Describe returns the description text, or "" when the page has no panel.
func (d *PageDescriber) Describe(ctx context.Context, pageURL string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	page, closePage, err := d.pager.NewPage("simplyhired")
	if err != nil {
		return "", err
	}
	defer closePage()

	if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(DescribeTimeout.Milliseconds())),
	}); err != nil {
		return "", fmt.Errorf("error navigating to %s: %w", pageURL, err)
	}

	panel := page.Locator(d.selector).First()
	if n, err := page.Locator(d.selector).Count(); err != nil || n == 0 {
		log.Printf("⚠️ Could not retrieve job details for: %s", pageURL)
		return "", nil
	}

	html, err := panel.InnerHTML()
	if err == nil {
		if text := d.toText(html, pageURL); text != "" {
			return text, nil
		}
	}

	//fallback to plain text
	inner, err := panel.InnerText()
	if err != nil {
		log.Printf("⚠️ Could not retrieve job details for: %s", pageURL)
		return "", nil
	}
	return strings.TrimSpace(inner), nil
}

// toText converts panel HTML to markdown; "" means the caller should fall back.
func (d *PageDescriber) toText(html, pageURL string) string {
	md, err := d.mdConverter.ConvertString(html, converter.WithDomain(pageURL))
	if err != nil {
		log.Printf("⚠️ Markdown conversion failed for %s: %v", pageURL, err)
		return ""
	}
	return strings.TrimSpace(md)
}
