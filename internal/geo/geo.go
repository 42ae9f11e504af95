package geo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/rs/zerolog/log"

	"github.com/Paintersrp/scenecat/internal/cache"
	"github.com/Paintersrp/scenecat/internal/catalog"
)

// KMLNamespace is the OGC KML 2.2 namespace holding the coordinates element.
const KMLNamespace = "http://www.opengis.net/kml/2.2"

const sidecarExt = ".kml"

var coordinatesExpr = xpath.MustCompile(
	"//*[local-name()='coordinates' and namespace-uri()='" + KMLNamespace + "']",
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("geo: parse error")

// ParseError reports a sidecar that could not be turned into coordinates:
// malformed XML, a missing coordinates element, or a bad tuple.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("geo: parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Eligibility is the positional naming convention marking folders whose
// sidecar carries a footprint (the L1C product level).
type Eligibility struct {
	Index int
	Flag  rune
}

// DefaultEligibility marks names with 'C' at rune index 49.
var DefaultEligibility = Eligibility{Index: 49, Flag: 'C'}

// Eligible reports whether name follows the convention. Names with Index or
// fewer runes are never eligible.
func (e Eligibility) Eligible(name string) bool {
	if e.Index < 0 {
		return false
	}
	runes := []rune(name)
	if len(runes) <= e.Index {
		return false
	}
	return runes[e.Index] == e.Flag
}

// FindSidecar returns the first file in dir whose extension is .kml in any
// case. A missing directory or a directory without a sidecar yields "".
func FindSidecar(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("geo: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), sidecarExt) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}

// ComputeCentroid returns the unweighted mean of the vertices listed in the
// first KML coordinates element of path. An empty coordinate list yields nil
// and no error.
func ComputeCentroid(path string) (*catalog.Coordinates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geo: opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := xmlquery.Parse(f)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	node := xmlquery.QuerySelector(doc, coordinatesExpr)
	if node == nil {
		return nil, &ParseError{Path: path, Err: errors.New("no kml coordinates element")}
	}

	coords, err := Centroid(node.InnerText())
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return coords, nil
}

// Centroid parses whitespace separated lon,lat[,alt] tuples and averages
// latitude and longitude independently.
func Centroid(text string) (*catalog.Coordinates, error) {
	tuples := strings.Fields(text)
	if len(tuples) == 0 {
		return nil, nil
	}

	var sumLat, sumLon float64
	for _, tuple := range tuples {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("coordinate tuple %q has no latitude", tuple)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate tuple %q: %w", tuple, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate tuple %q: %w", tuple, err)
		}
		sumLat += lat
		sumLon += lon
	}

	n := float64(len(tuples))
	return &catalog.Coordinates{Lat: sumLat / n, Lon: sumLon / n}, nil
}

// Geohash encodes c with the given number of characters (1 to 12).
func Geohash(c catalog.Coordinates, precision int) string {
	hash := geohash.Encode(c.Lat, c.Lon)
	if precision > 0 && precision < len(hash) {
		return hash[:precision]
	}
	return hash
}

// Failure records a record whose coordinates could not be derived.
type Failure struct {
	Name string
	Err  error
}

// CentroidCacheSize bounds the number of sidecars whose centroid is kept.
const CentroidCacheSize = 4096

// sidecarKey identifies one version of a sidecar file.
type sidecarKey struct {
	path    string
	modTime time.Time
	size    int64
}

// Extractor derives coordinates for catalog records under a root directory.
// Centroids are cached per sidecar path, modification time and size, so
// repeated derivations only parse changed files.
type Extractor struct {
	eligibility Eligibility
	centroids   *cache.LRU[sidecarKey, *catalog.Coordinates]
}

// NewExtractor returns an extractor using the given naming convention.
func NewExtractor(e Eligibility) *Extractor {
	return &Extractor{
		eligibility: e,
		centroids:   cache.NewLRU[sidecarKey, *catalog.Coordinates](CentroidCacheSize),
	}
}

// Eligible reports whether the record's name carries the product flag.
func (x *Extractor) Eligible(r catalog.Record) bool {
	return x.eligibility.Eligible(r.Name)
}

// Derive fills r.Coords from the record's sidecar. Ineligible records and
// records without a sidecar or coordinates are left untouched.
func (x *Extractor) Derive(root string, r *catalog.Record) error {
	if !x.Eligible(*r) {
		return nil
	}

	sidecar, err := FindSidecar(filepath.Join(root, r.Name))
	if err != nil {
		return err
	}
	if sidecar == "" {
		log.Debug().Str("name", r.Name).Msg("geo: no sidecar")
		return nil
	}

	coords, err := x.centroid(sidecar)
	if err != nil {
		return err
	}
	if coords == nil {
		log.Debug().Str("name", r.Name).Msg("geo: empty coordinate list")
		return nil
	}
	r.Coords = coords
	return nil
}

// DeriveAll derives coordinates for every record in place. Failures do not
// stop the batch; the caller decides whether any failure is fatal.
func (x *Extractor) DeriveAll(root string, records []catalog.Record) []Failure {
	var failures []Failure
	for i := range records {
		if err := x.Derive(root, &records[i]); err != nil {
			log.Warn().Err(err).Str("name", records[i].Name).Msg("geo: derivation failed")
			failures = append(failures, Failure{Name: records[i].Name, Err: err})
		}
	}
	return failures
}

// Forget drops the cached centroids of sidecars inside dir and returns how
// many were dropped.
func (x *Extractor) Forget(dir string) int {
	dir = filepath.Clean(dir)
	return x.centroids.RemoveFunc(func(k sidecarKey) bool {
		return filepath.Dir(k.path) == dir
	})
}

// Cached returns the number of cached centroids.
func (x *Extractor) Cached() int {
	return x.centroids.Len()
}

func (x *Extractor) centroid(path string) (*catalog.Coordinates, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("geo: reading %s: %w", path, err)
	}
	key := sidecarKey{path: path, modTime: info.ModTime(), size: info.Size()}

	if coords, ok := x.centroids.Get(key); ok {
		return copyCoords(coords), nil
	}

	coords, err := ComputeCentroid(path)
	if err != nil {
		return nil, err
	}
	x.centroids.Put(key, coords)
	return copyCoords(coords), nil
}

func copyCoords(c *catalog.Coordinates) *catalog.Coordinates {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}
