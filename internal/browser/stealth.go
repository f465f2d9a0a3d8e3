package browser

import (
	"context"
	"math/rand"
	"time"

	"github.com/playwright-community/playwright-go"
)

// RandomDelay waits for a random duration between min and max milliseconds,
// returning early with the context error if ctx is done.
func RandomDelay(ctx context.Context, min, max int) error {
	d := time.Duration(min) * time.Millisecond
	if max > min {
		d = time.Duration(rand.Intn(max-min+1)+min) * time.Millisecond
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// MouseJiggle moves the mouse to a few random points inside the viewport.
func MouseJiggle(ctx context.Context, page playwright.Page) error {
	width, height := 800, 600
	if size := page.ViewportSize(); size != nil && size.Width > 0 && size.Height > 0 {
		width, height = size.Width, size.Height
	}
	for i := 0; i < 3; i++ {
		x := rand.Intn(width)
		y := rand.Intn(height)
		if err := page.Mouse().Move(float64(x), float64(y)); err != nil {
			return err
		}
		if err := RandomDelay(ctx, 100, 300); err != nil {
			return err
		}
	}
	return nil
}

// SmoothScroll scrolls down, corrects up a little, then hits the bottom to
// trigger lazy loading.
func SmoothScroll(ctx context.Context, page playwright.Page) error {
	if err := page.Mouse().Wheel(0, 500); err != nil {
		return err
	}
	if err := RandomDelay(ctx, 500, 1000); err != nil {
		return err
	}

	if err := page.Mouse().Wheel(0, -200); err != nil {
		return err
	}
	if err := RandomDelay(ctx, 500, 800); err != nil {
		return err
	}

	_, err := page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return err
}
