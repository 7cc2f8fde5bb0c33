package harvest

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"go-hiring-harvester/internal/models"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

// addressPattern matches local-part@domain with a top-level label of at
// least two letters.
var addressPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// lineBreak stands in for <br> so source-formatting newlines can be
// collapsed without losing the rendered ones.
const lineBreak = "\u2028"

// Selectors locate a feed item and its fields inside the rendered page.
type Selectors struct {
	Item         string
	IDAttribute  string
	Author       string
	PostedAt     string
	Body         string
	ContactLinks string
	Links        string
	// Hidden text duplicates the visible text for screen readers.
	Hidden string
}

var LinkedInSelectors = Selectors{
	Item:         "div.feed-shared-update-v2",
	IDAttribute:  "data-urn",
	Author:       "span.update-components-actor__title",
	PostedAt:     "span.update-components-actor__sub-description",
	Body:         "div.update-components-text",
	ContactLinks: "a[href^='mailto:']",
	Links:        "a[href]",
	Hidden:       ".visually-hidden",
}

type ExtractStatus int

const (
	Extracted ExtractStatus = iota
	// Incomplete means a required field is absent; the item is skipped.
	Incomplete
	// Failed means something unexpected went wrong with this item only.
	Failed
)

func (s ExtractStatus) String() string {
	switch s {
	case Extracted:
		return "extracted"
	case Incomplete:
		return "incomplete"
	default:
		return "failed"
	}
}

// Extraction is the outcome of reading one feed item.
type Extraction struct {
	Status  ExtractStatus
	Record  models.PostRecord
	Missing string // required field that was absent, for Incomplete
	Err     error  // cause, for Failed
}

type Extractor struct {
	sel Selectors
}

func NewExtractor(sel Selectors) *Extractor {
	return &Extractor{sel: sel}
}

// Extract reads one feed item into a PostRecord. It never panics; absent
// required fields yield Incomplete and anything else unexpected yields
// Failed.
func (e *Extractor) Extract(item models.FeedItem) (ex Extraction) {
	defer func() {
		if r := recover(); r != nil {
			ex = Extraction{Status: Failed, Err: fmt.Errorf("panic while extracting: %v", r)}
		}
	}()

	if strings.TrimSpace(item.ID) == "" {
		return Extraction{Status: Incomplete, Missing: "post id"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.HTML))
	if err != nil {
		return Extraction{Status: Failed, Err: fmt.Errorf("failed to parse item html: %w", err)}
	}
	if e.sel.Hidden != "" {
		doc.Find(e.sel.Hidden).Remove()
	}
	doc.Find("br").ReplaceWithHtml(lineBreak)

	author, ok := e.text(doc, e.sel.Author)
	if !ok {
		return Extraction{Status: Incomplete, Missing: "author"}
	}
	postedAt, ok := e.text(doc, e.sel.PostedAt)
	if !ok {
		return Extraction{Status: Incomplete, Missing: "date"}
	}
	bodySel := doc.Find(e.sel.Body).First()
	if bodySel.Length() == 0 {
		return Extraction{Status: Incomplete, Missing: "body text"}
	}
	body := cleanBody(bodySel.Text())

	addresses := mapset.NewThreadUnsafeSet[string]()
	doc.Find(e.sel.ContactLinks).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		for _, addr := range mailtoAddresses(href) {
			addresses.Add(addr)
		}
	})
	for _, addr := range FindAddresses(body) {
		addresses.Add(addr)
	}

	links := mapset.NewThreadUnsafeSet[string]()
	doc.Find(e.sel.Links).Each(func(_ int, a *goquery.Selection) {
		if href := strings.TrimSpace(a.AttrOr("href", "")); href != "" {
			links.Add(href)
		}
	})

	outbound := sortedSlice(links)
	return Extraction{
		Status: Extracted,
		Record: models.PostRecord{
			PostID:           item.ID,
			Author:           author,
			PostedAt:         postedAt,
			BodyText:         body,
			ContactAddresses: sortedSlice(addresses),
			OutboundLinks:    outbound,
			Links:            outbound,
		},
	}
}

// FindAddresses returns the address-shaped substrings of text in order of
// appearance, without duplicates.
func FindAddresses(text string) []string {
	matches := addressPattern.FindAllString(text, -1)
	seen := make(map[string]bool, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func (e *Extractor) text(doc *goquery.Document, selector string) (string, bool) {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return "", false
	}
	return strings.Join(strings.Fields(s.Text()), " "), true
}

// mailtoAddresses strips the scheme and any header part of a mailto href
// and keeps only the address-shaped parts, dropping display names.
func mailtoAddresses(href string) []string {
	href = strings.TrimSpace(href)
	if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
		return nil
	}
	rest := href[len("mailto:"):]
	if i := strings.Index(rest, "?"); i >= 0 {
		rest = rest[:i]
	}
	if unescaped, err := url.PathUnescape(rest); err == nil {
		rest = unescaped
	}

	var out []string
	for _, part := range strings.Split(rest, ",") {
		out = append(out, FindAddresses(part)...)
	}
	return out
}

// cleanBody collapses whitespace inside each rendered line and runs of
// blank lines between them.
func cleanBody(raw string) string {
	lines := strings.Split(raw, lineBreak)
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func sortedSlice(s mapset.Set[string]) []string {
	out := s.ToSlice()
	sort.Strings(out)
	return out
}
