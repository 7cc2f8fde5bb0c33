package browser

import (
	"errors"
	"fmt"
	"time"

	"go-hiring-harvester/internal/models"

	"github.com/playwright-community/playwright-go"
)

var (
	// ErrTimeout means a bounded wait ran out before its condition held.
	ErrTimeout = errors.New("bounded wait timed out")
	// ErrElementMissing means an expected element is not on the page.
	ErrElementMissing = errors.New("element not found")
)

const navigationTimeout = 30 * time.Second

// snapshotScript collects every rendered item matching the selector in a
// single round trip.
const snapshotScript = `([selector, idAttribute]) =>
	Array.from(document.querySelectorAll(selector)).map(el => ({
		id: el.getAttribute(idAttribute) || "",
		html: el.outerHTML,
	}))`

// Page adapts a playwright page to the narrow operations the session
// manager and the harvest loop need.
type Page struct {
	page playwright.Page
}

func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// Raw exposes the underlying playwright page, e.g. for debug screenshots.
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) Goto(url string) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(navigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", url, translate(err))
	}
	return nil
}

func (p *Page) Reload() error {
	_, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   millis(navigationTimeout),
	})
	return translate(err)
}

func (p *Page) AddCookies(cookies []Cookie) error {
	pwCookies := make([]playwright.OptionalCookie, len(cookies))
	for i, c := range cookies {
		pwCookies[i] = c.ToPlaywright()
	}
	return translate(p.page.Context().AddCookies(pwCookies))
}

func (p *Page) Cookies() ([]Cookie, error) {
	pwCookies, err := p.page.Context().Cookies()
	if err != nil {
		return nil, translate(err)
	}
	cookies := make([]Cookie, len(pwCookies))
	for i, c := range pwCookies {
		cookies[i] = CookieFromPlaywright(c)
	}
	return cookies, nil
}

// WaitFor blocks until at least one element matches selector, or returns
// ErrTimeout after timeout.
func (p *Page) WaitFor(selector string, timeout time.Duration) error {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: millis(timeout),
	})
	return translate(err)
}

func (p *Page) Fill(selector, value string) error {
	field := p.page.Locator(selector).First()
	if count, err := p.page.Locator(selector).Count(); err != nil {
		return translate(err)
	} else if count == 0 {
		return fmt.Errorf("%w: %s", ErrElementMissing, selector)
	}
	return translate(field.Fill(value))
}

func (p *Page) Click(selector string) error {
	button := p.page.Locator(selector).First()
	if count, err := p.page.Locator(selector).Count(); err != nil {
		return translate(err)
	} else if count == 0 {
		return fmt.Errorf("%w: %s", ErrElementMissing, selector)
	}
	return translate(button.Click())
}

// ScrollToEnd scrolls the window to the current content extent.
func (p *Page) ScrollToEnd() error {
	_, err := p.page.Evaluate("window.scrollTo(0, document.body.scrollHeight)")
	return translate(err)
}

// Snapshot returns every currently rendered item, including ones seen on
// earlier iterations.
func (p *Page) Snapshot(selector, idAttribute string) ([]models.FeedItem, error) {
	raw, err := p.page.Evaluate(snapshotScript, []string{selector, idAttribute})
	if err != nil {
		return nil, translate(err)
	}

	list, ok := raw.([]interface{})
	if !ok {
		if raw == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected snapshot result %T", raw)
	}

	items := make([]models.FeedItem, 0, len(list))
	for _, entry := range list {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		id, _ := fields["id"].(string)
		html, _ := fields["html"].(string)
		items = append(items, models.FeedItem{ID: id, HTML: html})
	}
	return items, nil
}

// Close releases the page together with its browser context.
func (p *Page) Close() error {
	return p.page.Context().Close()
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
