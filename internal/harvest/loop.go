// Package harvest runs the time-boxed scroll-and-extract loop against a
// continuously loading feed.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-hiring-harvester/internal/browser"
	"go-hiring-harvester/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// ErrDriverFatal matches every *DriverError via errors.Is.
var ErrDriverFatal = errors.New("driver fatal")

// DriverError reports that the rendering surface became unusable.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver fatal during %s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error        { return e.Err }
func (e *DriverError) Is(target error) bool { return target == ErrDriverFatal }

// Surface is the browser page the loop exclusively owns for one run.
type Surface interface {
	Goto(url string) error
	ScrollToEnd() error
	// WaitFor returns browser.ErrTimeout when nothing matched in time.
	WaitFor(selector string, timeout time.Duration) error
	Snapshot(selector, idAttribute string) ([]models.FeedItem, error)
	Close() error
}

type State string

const (
	StateInitializing State = "initializing"
	StateScrolling    State = "scrolling"
	StateExtracting   State = "extracting"
	StateDraining     State = "draining"
	StateTimedOut     State = "timed-out"
	StateCompleted    State = "completed"
	StateAborted      State = "aborted"
)

type StopReason string

const (
	StopDeadline      StopReason = "deadline"
	StopFeedExhausted StopReason = "feed-exhausted"
	StopCancelled     StopReason = "cancelled"
	StopDriverFatal   StopReason = "driver-fatal"
)

const (
	DefaultBudget         = 2 * time.Minute
	DefaultSettleInterval = 2 * time.Second
	DefaultItemWait       = 10 * time.Second
)

type Options struct {
	Budget         time.Duration
	SettleInterval time.Duration
	ItemWait       time.Duration
	// ExhaustionRetries is how many extra bounded waits, with doubling
	// backoff, run before an empty wait counts as the end of the feed.
	ExhaustionRetries int
	Selectors         Selectors
}

func (o Options) withDefaults() Options {
	if o.Budget <= 0 {
		o.Budget = DefaultBudget
	}
	if o.SettleInterval <= 0 {
		o.SettleInterval = DefaultSettleInterval
	}
	if o.ItemWait <= 0 {
		o.ItemWait = DefaultItemWait
	}
	if o.ExhaustionRetries < 0 {
		o.ExhaustionRetries = 0
	}
	if o.Selectors.Item == "" {
		o.Selectors = LinkedInSelectors
	}
	return o
}

// Report summarises how a run went.
type Report struct {
	State      State
	Reason     StopReason
	Iterations int
	Extracted  int
	Skipped    int
	Elapsed    time.Duration
}

type Harvester struct {
	surface   Surface
	agg       *Aggregator
	extractor *Extractor
	opts      Options

	seen   mapset.Set[string]
	report Report
}

func NewHarvester(surface Surface, agg *Aggregator, opts Options) *Harvester {
	opts = opts.withDefaults()
	return &Harvester{
		surface:   surface,
		agg:       agg,
		extractor: NewExtractor(opts.Selectors),
		opts:      opts,
		seen:      mapset.NewThreadUnsafeSet[string](),
		report:    Report{State: StateInitializing},
	}
}

// Report returns the state of the last (or current) run.
func (h *Harvester) Report() Report {
	return h.report
}

// Run harvests target until the budget runs out, the feed stops producing
// items, or ctx is cancelled. The surface is released before Run returns.
// The result is always returned, partial after a *DriverError.
func (h *Harvester) Run(ctx context.Context, position string, target models.NavigationTarget) (*models.HarvestResult, error) {
	started := time.Now()
	deadline := started.Add(h.opts.Budget)
	h.setState(StateInitializing)
	log.Printf("📜 Harvesting %q for up to %v...", target.Expression, h.opts.Budget)

	loopErr := func() error {
		defer h.release()
		return h.loop(ctx, target, deadline)
	}()

	h.setState(StateDraining)
	if loopErr != nil {
		h.report.Reason = StopDriverFatal
		log.Printf("❌ Harvest aborted: %v", loopErr)
	}

	finished := time.Now()
	h.report.Elapsed = finished.Sub(started)
	result, finalizeErr := h.agg.Finalize(context.WithoutCancel(ctx), models.HarvestResult{
		RunID:            uuid.NewString(),
		TargetPosition:   position,
		SearchExpression: target.Expression,
		StartedAt:        started,
		FinishedAt:       finished,
		Outcome:          string(h.report.Reason),
	})

	if loopErr != nil {
		h.setState(StateAborted)
	} else {
		h.setState(StateCompleted)
	}
	if result != nil {
		log.Printf("📦 Harvested %d posts and %d unique addresses in %v (%s)",
			len(result.Posts), len(result.AllContactAddresses), h.report.Elapsed.Round(time.Second), h.report.Reason)
	}
	return result, errors.Join(loopErr, finalizeErr)
}

func (h *Harvester) loop(ctx context.Context, target models.NavigationTarget, deadline time.Time) error {
	loopCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	if err := h.surface.Goto(target.URL); err != nil {
		return &DriverError{Op: "navigate", Err: err}
	}

	sel := h.opts.Selectors
	for {
		if loopCtx.Err() != nil {
			if ctx.Err() != nil {
				h.report.Reason = StopCancelled
				log.Println("🛑 Harvest cancelled by caller.")
			} else {
				h.setState(StateTimedOut)
				h.report.Reason = StopDeadline
				log.Println("⏰ Time budget exhausted.")
			}
			return nil
		}
		h.report.Iterations++

		h.setState(StateScrolling)
		if err := h.surface.ScrollToEnd(); err != nil {
			return &DriverError{Op: "scroll", Err: err}
		}
		sleep(loopCtx, h.opts.SettleInterval)

		found, err := h.awaitItems(loopCtx)
		if err != nil {
			return err
		}
		if !found {
			if loopCtx.Err() != nil {
				continue
			}
			h.report.Reason = StopFeedExhausted
			log.Println("ℹ️ No posts loaded after scrolling or end of feed reached.")
			return nil
		}

		items, err := h.surface.Snapshot(sel.Item, sel.IDAttribute)
		if err != nil {
			return &DriverError{Op: "snapshot", Err: err}
		}

		h.setState(StateExtracting)
		h.process(items)
	}
}

// awaitItems waits, bounded, for at least one feed item. With retries
// configured a timeout is retried after a doubling backoff.
func (h *Harvester) awaitItems(ctx context.Context) (bool, error) {
	backoff := h.opts.SettleInterval
	for attempt := 0; ; attempt++ {
		err := h.surface.WaitFor(h.opts.Selectors.Item, h.opts.ItemWait)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, browser.ErrTimeout) {
			return false, &DriverError{Op: "wait for posts", Err: err}
		}
		if attempt >= h.opts.ExhaustionRetries {
			return false, nil
		}
		log.Printf("⏳ No posts yet, retrying in %v (%d/%d)", backoff, attempt+1, h.opts.ExhaustionRetries)
		if !sleep(ctx, backoff) {
			return false, nil
		}
		backoff *= 2
	}
}

func (h *Harvester) process(items []models.FeedItem) {
	fresh := 0
	for _, item := range items {
		if h.seen.Contains(item.ID) {
			continue
		}
		h.seen.Add(item.ID)
		fresh++

		ex := h.extractor.Extract(item)
		switch ex.Status {
		case Extracted:
			h.agg.Add(ex.Record)
			h.report.Extracted++
		case Incomplete:
			h.report.Skipped++
			log.Printf("  ⏭️ Skipping post %q: missing %s", item.ID, ex.Missing)
		case Failed:
			h.report.Skipped++
			log.Printf("  ⚠️ Error processing post %q: %v", item.ID, ex.Err)
		}
	}
	if fresh > 0 {
		log.Printf("  🔎 %d posts rendered, %d new, %d collected so far", len(items), fresh, h.agg.Len())
	}
}

func (h *Harvester) release() {
	if err := h.surface.Close(); err != nil {
		log.Printf("⚠️ Failed to release browser page: %v", err)
		return
	}
	log.Println("🧹 Browser page closed.")
}

func (h *Harvester) setState(s State) {
	h.report.State = s
}

// sleep pauses for d or until ctx is done; it reports whether the full
// pause elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
