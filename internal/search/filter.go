package search

import (
	"strings"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

// MatchReport summarizes a term-list search. It is a diagnostic for typos in
// the term list and never affects which records are kept.
type MatchReport struct {
	// MatchedCount is the number of kept records.
	MatchedCount int
	// UnmatchedTerms lists terms, deduplicated in first-seen order, that no
	// kept folder name contains.
	UnmatchedTerms []string
	// ExactMisses lists terms, deduplicated in first-seen order, that are not
	// exactly equal to a kept folder name. Scene ID lists usually hold full
	// folder names, so this is the stricter check.
	ExactMisses []string
}

// FilterAnd keeps records whose lowercased name contains every whitespace
// separated term of queryText. Input order is preserved.
func FilterAnd(records []catalog.Record, queryText string) []catalog.Record {
	terms := strings.Fields(strings.ToLower(queryText))

	out := make([]catalog.Record, 0, len(records))
	for _, r := range records {
		if containsAll(strings.ToLower(r.Name), terms) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAny keeps records whose lowercased name contains at least one of the
// lowercased terms and reports which terms went unmatched.
func FilterAny(records []catalog.Record, terms []string) ([]catalog.Record, MatchReport) {
	lowered := make([]string, len(terms))
	for i, term := range terms {
		lowered[i] = strings.ToLower(term)
	}

	out := make([]catalog.Record, 0, len(records))
	keptNames := make(map[string]struct{})
	var keptLower []string
	for _, r := range records {
		name := strings.ToLower(r.Name)
		if !containsAny(name, lowered) {
			continue
		}
		out = append(out, r)
		keptNames[r.Name] = struct{}{}
		keptLower = append(keptLower, name)
	}

	report := MatchReport{
		MatchedCount:   len(out),
		UnmatchedTerms: []string{},
		ExactMisses:    []string{},
	}
	for _, term := range dedupe(terms) {
		if !anyContains(keptLower, strings.ToLower(term)) {
			report.UnmatchedTerms = append(report.UnmatchedTerms, term)
		}
		if _, ok := keptNames[term]; !ok {
			report.ExactMisses = append(report.ExactMisses, term)
		}
	}
	return out, report
}

func containsAll(name string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(name, term) {
			return false
		}
	}
	return true
}

func containsAny(name string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func anyContains(names []string, term string) bool {
	for _, name := range names {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
