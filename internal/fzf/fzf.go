package fzf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/columns"
)

// ErrNoSelection is returned when the picker is aborted.
var ErrNoSelection = errors.New("no folder selected")

// FuzzyFinder picks one dataset folder from a catalog scan.
type FuzzyFinder struct {
	Header  string
	records []catalog.Record
}

func NewFuzzyFinder(records []catalog.Record, header string) *FuzzyFinder {
	return &FuzzyFinder{records: records, Header: header}
}

// Run opens the picker, pre-filled with query when non-empty, and returns
// the chosen record.
func (f *FuzzyFinder) Run(query string) (catalog.Record, error) {
	if len(f.records) == 0 {
		return catalog.Record{}, fmt.Errorf("catalog is empty")
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := fuzzyfinder.Find(f.records, func(i int) string {
		return Label(f.records[i])
	}, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return catalog.Record{}, ErrNoSelection
		}
		return catalog.Record{}, fmt.Errorf("selecting folder: %w", err)
	}

	return f.records[idx], nil
}

// Label is the line shown for a record in the picker.
func Label(r catalog.Record) string {
	level := columns.Value(r, columns.Level)
	if level == "" {
		return r.Name
	}
	return fmt.Sprintf("%s [%s]", r.Name, level)
}

func (f *FuzzyFinder) renderPreview(i, w, _ int) string {
	if i == -1 {
		return ""
	}

	width := w - 4
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(termenv.ANSI256),
	)
	if err != nil {
		return "Error creating renderer"
	}

	out, err := r.Render(RecordMarkdown(f.records[i]))
	if err != nil {
		return "Error rendering preview"
	}
	return out
}

// RecordMarkdown describes every column of a record as a Markdown table.
func RecordMarkdown(r catalog.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", r.Name)
	b.WriteString("| Column | Value |\n|---|---|\n")
	for _, name := range columns.Names[1:] {
		value := columns.Value(r, name)
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", name, escapeCell(value))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
