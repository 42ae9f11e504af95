package search

import (
	"time"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

// Query describes a filter pass over a catalog scan.
type Query struct {
	// Text is a whitespace separated AND query. Every term must appear in the
	// folder name, case-insensitively. Empty text matches everything.
	Text string
	// Terms, when non-nil, switches to an OR search: a folder matches when it
	// contains at least one term. Text is ignored in that mode.
	Terms []string
	// Since and Until bound the DateTime token. Zero values are open bounds.
	Since time.Time
	Until time.Time
}

// IsTermSearch reports whether the query is an OR search over a term list.
func (q Query) IsTermSearch() bool {
	return q.Terms != nil
}

// Apply runs the query against records. The date bounds narrow the records
// first, so a term search report describes the final kept set. The report is
// nil unless the query is a term search.
func (q Query) Apply(records []catalog.Record) ([]catalog.Record, *MatchReport) {
	records = FilterDateRange(records, q.Since, q.Until)

	if q.IsTermSearch() {
		kept, report := FilterAny(records, q.Terms)
		return kept, &report
	}
	return FilterAnd(records, q.Text), nil
}
