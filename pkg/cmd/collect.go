package cmd

import (
	"fmt"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/geo"
	"github.com/Paintersrp/scenecat/internal/search"
	"github.com/Paintersrp/scenecat/internal/state"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

// Result is a scanned, filtered and sorted catalog view.
type Result struct {
	Records  []catalog.Record
	Report   *search.MatchReport
	Failures []geo.Failure
}

// Collect scans the root, applies the query, optionally derives coordinates
// and sorts. With strict set, the first geo failure aborts.
func Collect(s *state.State, q flags.Query, strict bool) (Result, error) {
	records, report, err := s.Scan(q.Search)
	if err != nil {
		return Result{}, err
	}

	var failures []geo.Failure
	if q.Geo {
		failures = s.Extractor.DeriveAll(s.Root, records)
		if strict && len(failures) > 0 {
			f := failures[0]
			return Result{}, fmt.Errorf("deriving coordinates for %s: %w", f.Name, f.Err)
		}
	}

	sorted, err := q.Sort.Apply(records)
	if err != nil {
		return Result{}, err
	}

	return Result{Records: sorted, Report: report, Failures: failures}, nil
}
