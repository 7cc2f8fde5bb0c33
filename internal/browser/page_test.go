package browser

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper start headless browser
func setupPlaywright(t *testing.T) *Page {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("could not launch playwright: %v", err)
	}
	t.Cleanup(func() { pw.Stop() })

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("could not launch browser: %v", err)
	}
	t.Cleanup(func() { browser.Close() })

	page, err := browser.NewPage()
	if err != nil {
		t.Fatalf("could not create page: %v", err)
	}
	return NewPage(page)
}

const feedHTML = `<html><body>
<div class="feed-shared-update-v2" data-urn="urn:li:activity:1"><span class="update-components-actor__title">A</span></div>
<div class="feed-shared-update-v2" data-urn="urn:li:activity:2"><span class="update-components-actor__title">B</span></div>
<div class="feed-shared-update-v2"><span>no id</span></div>
</body></html>`

func TestPage_Snapshot(t *testing.T) {
	page := setupPlaywright(t)
	require.NoError(t, page.Raw().SetContent(feedHTML))

	require.NoError(t, page.WaitFor("div.feed-shared-update-v2", time.Second))
	items, err := page.Snapshot("div.feed-shared-update-v2", "data-urn")

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "urn:li:activity:1", items[0].ID)
	assert.Equal(t, "urn:li:activity:2", items[1].ID)
	assert.Equal(t, "", items[2].ID)
	assert.Contains(t, items[1].HTML, "update-components-actor__title")
	assert.NoError(t, page.ScrollToEnd())
}

func TestPage_BoundedWaitAndMissingElements(t *testing.T) {
	page := setupPlaywright(t)
	require.NoError(t, page.Raw().SetContent(`<html><body><p>empty feed</p></body></html>`))

	start := time.Now()
	err := page.WaitFor("div.feed-shared-update-v2", 300*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.ErrorIs(t, page.Fill("#username", "someone"), ErrElementMissing)
	assert.ErrorIs(t, page.Click("button[type='submit']"), ErrElementMissing)

	items, err := page.Snapshot("div.feed-shared-update-v2", "data-urn")
	require.NoError(t, err)
	assert.Empty(t, items)
}
