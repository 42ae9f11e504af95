package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxFields is the number of metadata tokens kept from a folder name.
const MaxFields = 10

// Coordinates is a derived position in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Record represents one dataset folder in a catalog scan.
type Record struct {
	// Name is the folder name. It is unique within a scan and joins the
	// record back to the filesystem.
	Name string
	// Fields holds at most MaxFields underscore separated tokens of Name.
	Fields []string
	// Coords stays nil until the geo extractor fills it in.
	Coords *Coordinates
}

// NewRecord tokenizes name into a fresh record.
func NewRecord(name string) Record {
	return Record{Name: name, Fields: Tokenize(name)}
}

// Field returns the token at position i, or "" when the name was shorter.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Tokenize splits a folder name on '_' and keeps the first MaxFields tokens.
// Excess tokens are dropped without error.
func Tokenize(name string) []string {
	tokens := strings.SplitN(name, "_", MaxFields+1)
	if len(tokens) > MaxFields {
		tokens = tokens[:MaxFields]
	}
	return tokens
}

// Build scans the immediate children of root and returns one record per
// directory, in enumeration order.
//
// A root that does not exist or is not a directory yields an empty catalog
// and no error: nothing has been selected yet.
func Build(root string) ([]Record, error) {
	if root == "" {
		return nil, nil
	}

	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("catalog: reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("catalog: reading %s: %w", root, err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !isDir(root, entry) {
			continue
		}
		records = append(records, NewRecord(entry.Name()))
	}
	return records, nil
}

// Count returns the number of dataset folders under root.
func Count(root string) int {
	records, err := Build(root)
	if err != nil {
		return 0
	}
	return len(records)
}

// Names returns the folder names of records in order.
func Names(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

// isDir follows symlinks so linked dataset folders are catalogued too.
func isDir(root string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	if err != nil {
		log.Debug().Err(err).Str("entry", entry.Name()).Msg("skipping dangling link")
		return false
	}
	return info.IsDir()
}
