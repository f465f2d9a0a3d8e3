package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobfit-automation/internal/config"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Manager owns one Playwright driver and one Chromium instance.
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     config.BrowserConfig
}

func NewManager(cfg config.BrowserConfig) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--no-sandbox",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	log.Printf("✅ Browser launched (headless=%v)", cfg.Headless)
	return &Manager{pw: pw, browser: browser, cfg: cfg}, nil
}

// NewContext opens an isolated browser context with the given cookies.
func (m *Manager) NewContext(cookies []Cookie) (playwright.BrowserContext, error) {
	bctx, err := m.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(defaultUserAgent),
		Viewport: &playwright.Size{
			Width:  1366,
			Height: 768,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	if pwCookies := toPlaywright(cookies); len(pwCookies) > 0 {
		if err := bctx.AddCookies(pwCookies); err != nil {
			_ = bctx.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
		log.Printf("🍪 Loaded %d cookies", len(pwCookies))
	}
	return bctx, nil
}

// NewPage opens a page in a fresh context carrying the cookies for site, read
// from <cookies_path>/<site>.json when that file exists.
func (m *Manager) NewPage(site string) (playwright.Page, func(), error) {
	var cookies []Cookie
	if site != "" && m.cfg.CookiesPath != "" {
		var err error
		cookies, err = LoadCookies(filepath.Join(m.cfg.CookiesPath, site+".json"))
		if err != nil {
			log.Printf("⚠️ %v", err)
		}
	}

	bctx, err := m.NewContext(cookies)
	if err != nil {
		return nil, nil, err
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, nil, fmt.Errorf("could not create page: %w", err)
	}
	page.SetDefaultNavigationTimeout(float64(m.Timeout().Milliseconds()))

	closeFn := func() {
		if err := bctx.Close(); err != nil {
			log.Printf("⚠️ Failed to close browser context: %v", err)
		}
	}
	return page, closeFn, nil
}

func (m *Manager) Timeout() time.Duration {
	if m.cfg.Timeout <= 0 {
		return 60 * time.Second
	}
	return m.cfg.Timeout
}

// Screenshots returns a debugger writing into the configured screenshot dir.
func (m *Manager) Screenshots() *ScreenshotDebugger {
	return NewScreenshotDebugger(m.cfg.ScreenshotDir)
}

func (m *Manager) Close() error {
	if err := m.browser.Close(); err != nil {
		_ = m.pw.Stop()
		return fmt.Errorf("could not close browser: %w", err)
	}
	if err := m.pw.Stop(); err != nil {
		return fmt.Errorf("could not stop playwright: %w", err)
	}
	return nil
}

// ScreenshotDebugger saves full-page screenshots when a page does not look
// like what a scraper expected.
type ScreenshotDebugger struct {
	outputDir string
	now       func() time.Time
}

func NewScreenshotDebugger(dir string) *ScreenshotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	return &ScreenshotDebugger{outputDir: dir, now: time.Now}
}

// FileName is the path a capture named name would be written to.
func (s *ScreenshotDebugger) FileName(name string) string {
	timestamp := s.now().Format("2006-01-02_15-04-05")
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
}

func (s *ScreenshotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	path := s.FileName(name)
	log.Printf("📸 %s", message)

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return err
	}

	log.Printf("   Screenshot saved: %s", path)
	return nil
}
