package columns

import (
	"math/big"
	"sort"
	"strings"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

// Sort returns a reordered copy of records ordered by column.
//
// When every value of the column parses as an integer the column compares
// numerically; otherwise the whole column compares as strings. The two modes
// are never mixed. Equal keys keep their relative order in both directions.
func Sort(records []catalog.Record, column string, reverse bool) ([]catalog.Record, error) {
	name, err := Resolve(column)
	if err != nil {
		return nil, err
	}

	sorted := make([]catalog.Record, len(records))
	copy(sorted, records)

	values := make([]string, len(sorted))
	for i, r := range sorted {
		values[i] = Value(r, name)
	}

	var less func(i, j int) bool
	if nums, ok := parseIntegers(values); ok {
		less = func(i, j int) bool { return nums[i].Cmp(nums[j]) < 0 }
	} else {
		less = func(i, j int) bool { return values[i] < values[j] }
	}

	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if reverse {
			return less(idx[b], idx[a])
		}
		return less(idx[a], idx[b])
	})

	out := make([]catalog.Record, len(sorted))
	for pos, i := range idx {
		out[pos] = sorted[i]
	}
	return out, nil
}

// parseIntegers parses every value as a base 10 integer. It reports false as
// soon as one value is not an integer.
func parseIntegers(values []string) ([]*big.Int, bool) {
	nums := make([]*big.Int, len(values))
	for i, v := range values {
		n, ok := new(big.Int).SetString(strings.TrimSpace(v), 10)
		if !ok {
			return nil, false
		}
		nums[i] = n
	}
	return nums, true
}

// SortState tracks the header toggle of an interactive table: sorting the
// same column again flips direction, a new column starts ascending.
type SortState struct {
	Column  string
	Reverse bool
}

// Toggle updates the state for a sort request on column and returns it.
func (s *SortState) Toggle(column string) SortState {
	if s.Column == column {
		s.Reverse = !s.Reverse
	} else {
		s.Column = column
		s.Reverse = false
	}
	return *s
}

// Apply sorts records with the current state. An empty state keeps input
// order.
func (s SortState) Apply(records []catalog.Record) ([]catalog.Record, error) {
	if s.Column == "" {
		return records, nil
	}
	return Sort(records, s.Column, s.Reverse)
}
