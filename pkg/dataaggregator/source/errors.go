package source

import "errors"

// UnsupportedSourceError is returned by a data source asked for a query it does not answer.
// The aggregator moves on to the next source when it sees it.
var UnsupportedSourceError = errors.New("unsupported source for this query")
