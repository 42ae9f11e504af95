package flags

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/search"
)

// Query is the parsed form of the shared filter, sort and geo flags.
type Query struct {
	Search search.Query
	Sort   columns.SortState
	Geo    bool
}

func AddQuery(cmd *cobra.Command) {
	cmd.Flags().String(
		"sort",
		"",
		fmt.Sprintf("Column to sort by (%s)", strings.Join(columns.Names, ", ")),
	)
	cmd.Flags().BoolP("reverse", "r", false, "Sort in descending order")
	cmd.Flags().String("since", "", "Keep folders whose DateTime token is at or after this date")
	cmd.Flags().String("until", "", "Keep folders whose DateTime token is at or before this date")
	AddGeo(cmd)
}

func AddGeo(cmd *cobra.Command) {
	cmd.Flags().BoolP("geo", "g", false, "Derive coordinates from KML sidecars")
}

// HandleQuery reads the flags registered by AddQuery. Positional args form
// the AND query text.
func HandleQuery(cmd *cobra.Command, args []string) (Query, error) {
	var q Query
	q.Search.Text = strings.Join(args, " ")

	sortBy, _ := cmd.Flags().GetString("sort")
	if sortBy != "" {
		column, err := columns.Resolve(sortBy)
		if err != nil {
			return Query{}, err
		}
		q.Sort.Column = column
	}
	q.Sort.Reverse, _ = cmd.Flags().GetBool("reverse")

	var err error
	if q.Search.Since, err = handleDate(cmd, "since", search.ParseDateTime); err != nil {
		return Query{}, err
	}
	if q.Search.Until, err = handleDate(cmd, "until", search.ParseUntil); err != nil {
		return Query{}, err
	}

	q.Geo = HandleGeo(cmd)
	return q, nil
}

func HandleGeo(cmd *cobra.Command) bool {
	geo, _ := cmd.Flags().GetBool("geo")
	return geo
}

func handleDate(cmd *cobra.Command, name string, parse func(string) (time.Time, error)) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, err := parse(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return t, nil
}
