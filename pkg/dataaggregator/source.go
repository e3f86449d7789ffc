package dataaggregator

import (
	"context"
	"reflect"
)

// DataSource answers typed queries. Lookup returns source.UnsupportedSourceError for queries
// it does not handle so the aggregator can try the next source.
type DataSource interface {
	GetName() string
	Supports() []reflect.Type
	Lookup(ctx context.Context, q any) (interface{}, error)
}
