package export

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/columns"
)

func sampleRecords() []catalog.Record {
	a := catalog.NewRecord("K3A_20230101093000_R1_S1_A_W_SM_GEC_SLC_L1C")
	a.Coords = &catalog.Coordinates{Lat: 37.5, Lon: 127.25}
	b := catalog.NewRecord("short_name")
	c := catalog.NewRecord(`quoted,"name"_x`)
	return []catalog.Record{a, b, c}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	records := sampleRecords()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}

	header, rows, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if !reflect.DeepEqual(header, columns.Names) {
		t.Fatalf("expected header %v, got %v", columns.Names, header)
	}
	if len(rows) != len(records) {
		t.Fatalf("expected %d rows, got %d", len(records), len(rows))
	}
	for i, r := range records {
		if !reflect.DeepEqual(rows[i], columns.Row(r)) {
			t.Fatalf("row %d: expected %q, got %q", i, columns.Row(r), rows[i])
		}
	}
	if rows[0][11] != "37.5" || rows[0][12] != "127.25" {
		t.Fatalf("expected coordinates in last columns, got %q", rows[0][11:])
	}
	if rows[1][3] != "" || rows[1][12] != "" {
		t.Fatalf("expected empty cells beyond the last token, got %q", rows[1])
	}
}

func TestWriteCSVUsesCRLFAndHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV returned error: %v", err)
	}
	want := strings.Join(columns.Names, ",") + "\r\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestReadCSVRejectsEmptyInput(t *testing.T) {
	if _, _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty csv")
	}
}

func TestWriteGeoJSONSkipsUnsetCoordinates(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("WriteGeoJSON returned error: %v", err)
	}

	var decoded struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid geojson: %v", err)
	}

	if decoded.Type != "FeatureCollection" || len(decoded.Features) != 1 {
		t.Fatalf("expected one feature, got %+v", decoded)
	}
	f := decoded.Features[0]
	if f.Geometry.Type != "Point" || !reflect.DeepEqual(f.Geometry.Coordinates, []float64{127.25, 37.5}) {
		t.Fatalf("expected lon,lat point, got %+v", f.Geometry)
	}
	if f.Properties["level"] != "L1C" || f.Properties["source"] != "K3A" {
		t.Fatalf("unexpected properties %v", f.Properties)
	}
	if hash, _ := f.Properties["geohash"].(string); len(hash) != GeohashPrecision {
		t.Fatalf("expected %d character geohash, got %q", GeohashPrecision, hash)
	}
}
