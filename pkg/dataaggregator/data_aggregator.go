package dataaggregator

import (
	"context"
	"reflect"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/travigo/journeyplanner/pkg/dataaggregator/source"
	"github.com/travigo/journeyplanner/pkg/ranker"
	"golang.org/x/exp/slices"
)

var ErrNoMatchingSource = errors.New("failed to find a matching data source for type")

const DefaultTimeout = 15 * time.Second

type Aggregator struct {
	Sources []DataSource

	// Timeout bounds a fan-out across every source
	Timeout time.Duration

	Ranker *ranker.Ranker
}

func New(timeout time.Duration, itineraryRanker *ranker.Ranker) *Aggregator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if itineraryRanker == nil {
		itineraryRanker = &ranker.Ranker{Limit: ranker.DefaultLimit}
	}

	return &Aggregator{
		Timeout: timeout,
		Ranker:  itineraryRanker,
	}
}

func (a *Aggregator) RegisterSource(source DataSource) {
	a.Sources = append(a.Sources, source)

	log.Debug().Str("name", source.GetName()).Msg("Registering new Data Source")
}

func (a *Aggregator) sourcesFor(lookupType reflect.Type) []DataSource {
	if lookupType.Kind() == reflect.Pointer {
		lookupType = lookupType.Elem()
	}

	var sources []DataSource
	for _, dataSource := range a.Sources {
		if slices.Contains(dataSource.Supports(), lookupType) {
			sources = append(sources, dataSource)
		}
	}
	return sources
}

// Lookup asks each source supporting T in registration order and returns the first answer
// from a source that handles the query
func Lookup[T any](ctx context.Context, a *Aggregator, query any) (T, error) {
	var empty T

	for _, dataSource := range a.sourcesFor(reflect.TypeOf(*new(T))) {
		returnValue, err := dataSource.Lookup(ctx, query)
		if errors.Is(err, source.UnsupportedSourceError) {
			continue
		}

		if returnValue == nil {
			return empty, err
		}
		return returnValue.(T), err
	}

	return empty, ErrNoMatchingSource
}

type SourceResult[T any] struct {
	Name    string
	Value   T
	Err     error
	Latency time.Duration
}

// LookupAll asks every source supporting T concurrently within the aggregator timeout.
// Sources that do not handle the query are left out, a failing or slow source only
// affects its own result. Results keep source registration order.
func LookupAll[T any](ctx context.Context, a *Aggregator, query any) []SourceResult[T] {
	sources := a.sourcesFor(reflect.TypeOf(*new(T)))
	if len(sources) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	type indexedResult struct {
		index       int
		unsupported bool
		result      SourceResult[T]
	}

	p := pool.NewWithResults[indexedResult]()
	p.WithMaxGoroutines(len(sources))

	for index, dataSource := range sources {
		p.Go(func() indexedResult {
			start := time.Now()
			value, err := lookupWithDeadline[T](ctx, dataSource, query)

			return indexedResult{
				index:       index,
				unsupported: errors.Is(err, source.UnsupportedSourceError),
				result: SourceResult[T]{
					Name:    dataSource.GetName(),
					Value:   value,
					Err:     err,
					Latency: time.Since(start),
				},
			}
		})
	}

	indexedResults := p.Wait()
	slices.SortFunc(indexedResults, func(a, b indexedResult) int {
		return a.index - b.index
	})

	var results []SourceResult[T]
	for _, indexed := range indexedResults {
		if indexed.unsupported {
			continue
		}

		if indexed.result.Err != nil {
			log.Warn().Err(indexed.result.Err).Str("source", indexed.result.Name).Dur("latency", indexed.result.Latency).Msg("Data source lookup failed")
		}
		results = append(results, indexed.result)
	}

	return results
}

// lookupWithDeadline returns when the source answers or the context ends, whichever is first
func lookupWithDeadline[T any](ctx context.Context, dataSource DataSource, query any) (T, error) {
	var empty T

	type answer struct {
		value interface{}
		err   error
	}
	answers := make(chan answer, 1)

	go func() {
		value, err := dataSource.Lookup(ctx, query)
		answers <- answer{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return empty, errors.Wrapf(ctx.Err(), "%s did not answer in time", dataSource.GetName())
	case answer := <-answers:
		if answer.value == nil {
			return empty, answer.err
		}

		value, ok := answer.value.(T)
		if !ok {
			return empty, errors.Errorf("%s returned %T", dataSource.GetName(), answer.value)
		}
		return value, answer.err
	}
}
