package columns

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Paintersrp/scenecat/internal/catalog"
)

// Column names in display and export order.
const (
	DataName  = "DataName"
	Source    = "Source"
	DateTime  = "DateTime"
	RequestNo = "RequestNo"
	SceneNo   = "SceneNo"
	Direction = "Direction"
	Swath     = "Swath"
	Mode      = "Mode"
	PType1    = "P.Type1"
	PType2    = "P.Type2"
	Level     = "Level"
	Lat       = "Lat"
	Lon       = "Lon"
)

// Names is the fixed header shared by the table views and the CSV export.
var Names = []string{
	DataName, Source, DateTime, RequestNo, SceneNo, Direction,
	Swath, Mode, PType1, PType2, Level, Lat, Lon,
}

// Widths are the preferred display widths; unlisted columns use DefaultWidth.
var Widths = map[string]int{
	DataName:  60,
	Source:    8,
	DateTime:  16,
	Direction: 9,
	Mode:      6,
	Level:     6,
	PType1:    8,
	PType2:    8,
	Lat:       12,
	Lon:       12,
}

// DefaultWidth is used for columns without an entry in Widths.
const DefaultWidth = 10

// Width returns the preferred display width of column.
func Width(column string) int {
	if w, ok := Widths[column]; ok {
		return w
	}
	return DefaultWidth
}

// Resolve returns the canonical spelling of a column name, matched
// case-insensitively.
func Resolve(column string) (string, error) {
	for _, name := range Names {
		if strings.EqualFold(name, strings.TrimSpace(column)) {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown column %q, expected one of %s", column, strings.Join(Names, ", "))
}

// Index returns the position of column in Names, or -1.
func Index(column string) int {
	for i, name := range Names {
		if name == column {
			return i
		}
	}
	return -1
}

// Value returns the cell text of record r for column. Unknown columns and
// absent tokens read as "".
func Value(r catalog.Record, column string) string {
	switch column {
	case DataName:
		return r.Name
	case Lat:
		if r.Coords == nil {
			return ""
		}
		return FormatCoordinate(r.Coords.Lat)
	case Lon:
		if r.Coords == nil {
			return ""
		}
		return FormatCoordinate(r.Coords.Lon)
	}

	idx := Index(column)
	if idx <= 0 {
		return ""
	}
	return r.Field(idx - 1)
}

// Row returns every cell of r in Names order.
func Row(r catalog.Record) []string {
	row := make([]string, len(Names))
	for i, name := range Names {
		row[i] = Value(r, name)
	}
	return row
}

// FormatCoordinate renders v with the shortest exact digits and always at
// least one decimal, e.g. 21.0 or 37.56652.
func FormatCoordinate(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
