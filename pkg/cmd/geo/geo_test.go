package geo

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/export"
	internalgeo "github.com/Paintersrp/scenecat/internal/geo"
	"github.com/Paintersrp/scenecat/internal/handler"
	"github.com/Paintersrp/scenecat/internal/state"
)

const kmlBody = `<kml xmlns="http://www.opengis.net/kml/2.2"><Document><coordinates>10,20 12,22</coordinates></Document></kml>`

func eligibleName(prefix string) string {
	return prefix + strings.Repeat("0", 49-len(prefix)) + "C"
}

func newTestState(t *testing.T, sidecars map[string]string) *state.State {
	t.Helper()

	root := t.TempDir()
	for name, body := range sidecars {
		dir := filepath.Join(root, name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
		if body == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, "scene.kml"), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write kml: %v", err)
		}
	}

	return &state.State{
		Root:      root,
		Handler:   handler.NewFileHandler(root, ""),
		Extractor: internalgeo.NewExtractor(internalgeo.DefaultEligibility),
		Status:    &state.CatalogStatus{},
	}
}

func TestGeoPrintsLocatedFolders(t *testing.T) {
	located := eligibleName("K5_A")
	s := newTestState(t, map[string]string{
		located:     kmlBody,
		"K3A_plain": "",
	})

	var out, errOut bytes.Buffer
	cmd := NewCmdGeo(s)
	cmd.SetArgs(nil)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("geo failed: %v", err)
	}

	hash := internalgeo.Geohash(catalog.Coordinates{Lat: 21, Lon: 11}, export.GeohashPrecision)
	want := located + "\t21.0\t11.0\t" + hash
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 || lines[1] != want {
		t.Fatalf("expected row %q, got:\n%s", want, out.String())
	}
	if got := strings.TrimSpace(errOut.String()); got != "1 of 2 folders located" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestGeoStrictFailsOnBrokenSidecar(t *testing.T) {
	s := newTestState(t, map[string]string{
		eligibleName("K5_B"): `<kml xmlns="http://www.opengis.net/kml/2.2"><coordinates>east,north</coordinates></kml>`,
	})

	cmd := NewCmdGeo(s)
	cmd.SetArgs([]string{"--strict"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected --strict to fail on an unreadable sidecar")
	}
}

func TestSummary(t *testing.T) {
	if got := summary(3, 5, 0); got != "3 of 5 folders located" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := summary(3, 5, 2); got != "3 of 5 folders located, 2 unreadable" {
		t.Fatalf("unexpected summary %q", got)
	}
}
