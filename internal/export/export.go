package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/geo"
)

// GeohashPrecision is the geohash length written into GeoJSON properties.
const GeohashPrecision = 9

// WriteCSV writes the fixed header followed by one row per record, in the
// given order. Rows end in CRLF.
func WriteCSV(w io.Writer, records []catalog.Record) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(columns.Names); err != nil {
		return fmt.Errorf("export: writing header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(columns.Row(r)); err != nil {
			return fmt.Errorf("export: writing %s: %w", r.Name, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flushing csv: %w", err)
	}
	return nil
}

// ReadCSV reads an export back into its header and rows.
func ReadCSV(r io.Reader) ([]string, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns.Names)

	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("export: reading csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("export: reading csv: missing header")
	}
	return all[0], all[1:], nil
}

// FeatureCollection builds point features for records with coordinates.
// Records without coordinates are skipped.
func FeatureCollection(records []catalog.Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		if r.Coords == nil {
			continue
		}
		f := geojson.NewFeature(orb.Point{r.Coords.Lon, r.Coords.Lat})
		f.Properties["name"] = r.Name
		f.Properties["source"] = columns.Value(r, columns.Source)
		f.Properties["datetime"] = columns.Value(r, columns.DateTime)
		f.Properties["level"] = columns.Value(r, columns.Level)
		f.Properties["geohash"] = geo.Geohash(*r.Coords, GeohashPrecision)
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes FeatureCollection(records) as JSON.
func WriteGeoJSON(w io.Writer, records []catalog.Record) error {
	data, err := FeatureCollection(records).MarshalJSON()
	if err != nil {
		return fmt.Errorf("export: encoding geojson: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: writing geojson: %w", err)
	}
	return nil
}
