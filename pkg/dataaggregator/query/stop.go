package query

// Stop finds stops by free text. An empty Text browses the dataset,
// bounded unless Unbounded is set.
type Stop struct {
	Text      string
	Unbounded bool
}

// Routes lists routes, optionally only of one transport type
type Routes struct {
	TransportType string
}
