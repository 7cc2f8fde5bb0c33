package harvest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go-hiring-harvester/internal/models"

	mapset "github.com/deckarep/golang-set/v2"
)

var ErrAlreadyFinalized = errors.New("harvest result already finalized")

// Sink receives the finished result exactly once per run.
type Sink interface {
	Write(ctx context.Context, result *models.HarvestResult) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, result *models.HarvestResult) error

func (f SinkFunc) Write(ctx context.Context, result *models.HarvestResult) error {
	return f(ctx, result)
}

// Aggregator collects records in discovery order together with the union of
// their contact addresses. It belongs to a single run.
type Aggregator struct {
	posts     []models.PostRecord
	addresses mapset.Set[string]
	sinks     []Sink
	finalized bool
}

func NewAggregator(sinks ...Sink) *Aggregator {
	return &Aggregator{
		addresses: mapset.NewThreadUnsafeSet[string](),
		sinks:     sinks,
	}
}

// Add appends record and merges its addresses into the running set.
func (a *Aggregator) Add(record models.PostRecord) {
	if a.finalized {
		log.Printf("⚠️ Dropping post %s received after finalize", record.PostID)
		return
	}
	a.posts = append(a.posts, record)
	for _, addr := range record.ContactAddresses {
		a.addresses.Add(addr)
	}
}

func (a *Aggregator) Len() int {
	return len(a.posts)
}

// Finalize seals the aggregate into meta and hands it to every sink. Sink
// errors are joined; the result is returned even when a sink fails.
func (a *Aggregator) Finalize(ctx context.Context, meta models.HarvestResult) (*models.HarvestResult, error) {
	if a.finalized {
		return nil, ErrAlreadyFinalized
	}
	a.finalized = true

	result := meta
	result.Posts = make([]models.PostRecord, len(a.posts))
	copy(result.Posts, a.posts)
	result.AllContactAddresses = sortedSlice(a.addresses)

	var errs []error
	for i, sink := range a.sinks {
		if err := sink.Write(ctx, &result); err != nil {
			errs = append(errs, fmt.Errorf("sink %d: %w", i, err))
		}
	}
	return &result, errors.Join(errs...)
}
