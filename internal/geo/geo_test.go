package geo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

const kmlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <Polygon><outerBoundaryIs><LinearRing>
        <coordinates>%s</coordinates>
      </LinearRing></outerBoundaryIs></Polygon>
    </Placemark>
  </Document>
</kml>`

func writeKML(t testing.TB, dir, name, coords string) string {
	t.Helper()
	return writeFile(t, dir, name, strings.Replace(kmlTemplate, "%s", coords, 1))
}

func writeFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// eligibleName builds a name with flag at rune index 49.
func eligibleName(flag byte) string {
	prefix := "K3A_20230101093000_12345_67890_A_W_SM_GEC_SLC_"
	prefix += strings.Repeat("X", 49-len(prefix))
	return prefix + string(flag) + "_tail"
}

func TestEligibilityBoundary(t *testing.T) {
	e := DefaultEligibility

	if !e.Eligible(eligibleName('C')) {
		t.Fatalf("expected name with C at index 49 to be eligible")
	}
	if e.Eligible(eligibleName('A')) {
		t.Fatalf("expected other flags to be ineligible")
	}

	short := strings.Repeat("C", 49)
	if e.Eligible(short) {
		t.Fatalf("expected a 49 rune name to never be eligible")
	}
	if !e.Eligible(short + "C") {
		t.Fatalf("expected a 50 rune name ending in C to be eligible")
	}
}

func TestEligibilityCountsRunes(t *testing.T) {
	name := strings.Repeat("가", 49) + "C"
	if !DefaultEligibility.Eligible(name) {
		t.Fatalf("expected rune indexing for multi-byte names")
	}
}

func TestCentroidAveragesVertices(t *testing.T) {
	got, err := Centroid("10,20 12,22")
	if err != nil {
		t.Fatalf("Centroid returned error: %v", err)
	}
	if got == nil || got.Lat != 21.0 || got.Lon != 11.0 {
		t.Fatalf("expected lat=21 lon=11, got %+v", got)
	}

	got, err = Centroid("\n  126.0,37.0,0 127.0,38.0,0\n 128.0,36.0,0 ")
	if err != nil {
		t.Fatalf("Centroid returned error: %v", err)
	}
	if got.Lat != 37.0 || got.Lon != 127.0 {
		t.Fatalf("expected lat=37 lon=127, got %+v", got)
	}
}

func TestCentroidEmptyListIsUnset(t *testing.T) {
	got, err := Centroid("   \n\t")
	if err != nil {
		t.Fatalf("Centroid returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil coordinates, got %+v", got)
	}
}

func TestCentroidRejectsBadTuples(t *testing.T) {
	for _, input := range []string{"10", "a,b", "10,north"} {
		if _, err := Centroid(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestComputeCentroidReadsKML(t *testing.T) {
	path := writeKML(t, t.TempDir(), "footprint.kml", "10,20,0 12,22,0")

	got, err := ComputeCentroid(path)
	if err != nil {
		t.Fatalf("ComputeCentroid returned error: %v", err)
	}
	if got == nil || got.Lat != 21.0 || got.Lon != 11.0 {
		t.Fatalf("expected lat=21 lon=11, got %+v", got)
	}
}

func TestComputeCentroidEmptyCoordinates(t *testing.T) {
	path := writeKML(t, t.TempDir(), "empty.kml", "  ")

	got, err := ComputeCentroid(path)
	if err != nil {
		t.Fatalf("ComputeCentroid returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil coordinates, got %+v", got)
	}
}

func TestComputeCentroidParseErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"malformed.kml": `<kml xmlns="http://www.opengis.net/kml/2.2"><Placemark></Polygon></kml>`,
		"missing.kml":   `<kml xmlns="http://www.opengis.net/kml/2.2"><Document/></kml>`,
		"wrong-ns.kml":  `<kml><coordinates>1,2</coordinates></kml>`,
		"bad-tuple.kml": strings.Replace(kmlTemplate, "%s", "1,2 oops", 1),
	}

	for name, content := range cases {
		path := writeFile(t, dir, name, content)
		_, err := ComputeCentroid(path)
		if err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
		if !errors.Is(err, ErrParse) {
			t.Fatalf("%s: expected ErrParse, got %v", name, err)
		}
		var perr *ParseError
		if !errors.As(err, &perr) || perr.Path != path {
			t.Fatalf("%s: expected *ParseError for %s, got %v", name, path, err)
		}
	}
}

func TestFindSidecarMatchesExtensionCaseInsensitively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "x")
	want := writeFile(t, dir, "FOOTPRINT.KML", "x")
	if err := os.Mkdir(filepath.Join(dir, "a.kml"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := FindSidecar(dir)
	if err != nil {
		t.Fatalf("FindSidecar returned error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestFindSidecarAbsent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.txt", "x")

	got, err := FindSidecar(dir)
	if err != nil || got != "" {
		t.Fatalf("expected no sidecar, got %q, %v", got, err)
	}

	got, err = FindSidecar(filepath.Join(dir, "missing"))
	if err != nil || got != "" {
		t.Fatalf("expected no sidecar for missing dir, got %q, %v", got, err)
	}
}

func TestDeriveAllFillsEligibleRecordsOnly(t *testing.T) {
	root := t.TempDir()

	good := eligibleName('C')
	writeKML(t, filepath.Join(root, good), "scene.kml", "10,20 12,22")

	ineligible := eligibleName('A')
	writeKML(t, filepath.Join(root, ineligible), "scene.kml", "10,20 12,22")

	noSidecar := "K3A_" + strings.Repeat("Y", 45) + "C"
	if err := os.MkdirAll(filepath.Join(root, noSidecar), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	broken := strings.Repeat("Z", 49) + "C_broken"
	writeFile(t, filepath.Join(root, broken), "scene.kml", "<kml><a></b></kml>")

	records := []catalog.Record{
		catalog.NewRecord(good),
		catalog.NewRecord(ineligible),
		catalog.NewRecord(noSidecar),
		catalog.NewRecord(broken),
	}

	failures := NewExtractor(DefaultEligibility).DeriveAll(root, records)

	if records[0].Coords == nil || records[0].Coords.Lat != 21.0 || records[0].Coords.Lon != 11.0 {
		t.Fatalf("expected coordinates for eligible record, got %+v", records[0].Coords)
	}
	for _, r := range records[1:] {
		if r.Coords != nil {
			t.Fatalf("expected %s to stay unset, got %+v", r.Name, r.Coords)
		}
	}
	if len(failures) != 1 || failures[0].Name != broken || !errors.Is(failures[0].Err, ErrParse) {
		t.Fatalf("expected one parse failure for %s, got %+v", broken, failures)
	}
}

func TestDeriveCachesCentroidUntilSidecarChanges(t *testing.T) {
	root := t.TempDir()
	name := eligibleName('C')
	path := writeKML(t, filepath.Join(root, name), "scene.kml", "10,20 12,22")

	x := NewExtractor(DefaultEligibility)
	first := catalog.NewRecord(name)
	if err := x.Derive(root, &first); err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	first.Coords.Lat = 99

	second := catalog.NewRecord(name)
	if err := x.Derive(root, &second); err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	if second.Coords == nil || second.Coords.Lat != 21 {
		t.Fatalf("expected cached centroid to be unaffected by callers, got %+v", second.Coords)
	}
	if x.centroids.Len() != 1 {
		t.Fatalf("expected one cached sidecar, got %d", x.centroids.Len())
	}

	writeKML(t, filepath.Dir(path), "scene.kml", "0,0 0,2 4,0 4,2")
	third := catalog.NewRecord(name)
	if err := x.Derive(root, &third); err != nil {
		t.Fatalf("Derive returned error: %v", err)
	}
	if third.Coords == nil || third.Coords.Lat != 1 || third.Coords.Lon != 2 {
		t.Fatalf("expected centroid of the rewritten sidecar, got %+v", third.Coords)
	}
}

func TestForgetDropsOnlyThatFolder(t *testing.T) {
	root := t.TempDir()
	first := eligibleName('C')
	second := strings.Repeat("W", 49) + "C"
	writeKML(t, filepath.Join(root, first), "scene.kml", "10,20 12,22")
	writeKML(t, filepath.Join(root, second), "scene.kml", "0,0 2,2")

	x := NewExtractor(DefaultEligibility)
	if failures := x.DeriveAll(root, []catalog.Record{catalog.NewRecord(first), catalog.NewRecord(second)}); len(failures) != 0 {
		t.Fatalf("unexpected failures %+v", failures)
	}
	if x.Cached() != 2 {
		t.Fatalf("expected 2 cached centroids, got %d", x.Cached())
	}

	if n := x.Forget(filepath.Join(root, first)); n != 1 {
		t.Fatalf("expected 1 centroid dropped, got %d", n)
	}
	if x.Cached() != 1 {
		t.Fatalf("expected 1 cached centroid left, got %d", x.Cached())
	}
}

func TestGeohashPrecision(t *testing.T) {
	c := catalog.Coordinates{Lat: 57.64911, Lon: 10.40744}
	if got := Geohash(c, 5); got != "u4pru" {
		t.Fatalf("expected u4pru, got %s", got)
	}
	if got := Geohash(c, 0); !strings.HasPrefix(got, "u4pruydqqv") {
		t.Fatalf("expected full precision hash, got %s", got)
	}
}
