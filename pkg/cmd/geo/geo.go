package geo

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/export"
	"github.com/Paintersrp/scenecat/internal/geo"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

var headers = []string{"DataName", "Lat", "Lon", "Geohash"}

func NewCmdGeo(s *state.State) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "geo [query...]",
		Short: "Derive footprint centroids from KML sidecars",
		Long: heredoc.Doc(`
			For every matching folder whose name carries the product level flag, reads
			the first .kml file inside the folder and prints the mean of its footprint
			vertices. Folders without a sidecar or coordinates are skipped.

			Unreadable sidecars are logged and skipped unless --strict is set.
		`),
		Example: "scenecat geo K3A --sort Lat",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.HandleQuery(cmd, args)
			if err != nil {
				return err
			}
			q.Geo = true

			res, err := cmdpkg.Collect(s, q, strict)
			if err != nil {
				return err
			}

			var rows [][]string
			for _, r := range res.Records {
				if r.Coords == nil {
					continue
				}
				rows = append(rows, []string{
					r.Name,
					columns.FormatCoordinate(r.Coords.Lat),
					columns.FormatCoordinate(r.Coords.Lon),
					geo.Geohash(*r.Coords, export.GeohashPrecision),
				})
			}

			if err := cmdpkg.RenderTable(cmd.OutOrStdout(), headers, rows); err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), summary(len(rows), len(res.Records), len(res.Failures)))
			return nil
		},
	}

	flags.AddQuery(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Abort on the first unreadable sidecar")

	return cmd
}

func summary(located, total, failed int) string {
	line := fmt.Sprintf("%d of %d folders located", located, total)
	if failed > 0 {
		line += fmt.Sprintf(", %d unreadable", failed)
	}
	return line
}
