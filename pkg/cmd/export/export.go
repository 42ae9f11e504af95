package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/export"
	"github.com/Paintersrp/scenecat/internal/publish"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

// NewPublisher builds the S3 publisher used by --s3.
var NewPublisher = func(cmd *cobra.Command) (*publish.Publisher, error) {
	return publish.New(cmd.Context())
}

func NewCmdExport(s *state.State) *cobra.Command {
	var (
		geojsonPath string
		s3URL       string
	)

	cmd := &cobra.Command{
		Use:   "export <file.csv> [query...]",
		Short: "Export folders as CSV",
		Long: heredoc.Doc(`
			Writes the matching folders to a CSV file with one column per name token,
			in the requested sort order. Use - to write to stdout. A relative file name
			is placed in the workspace export directory when one is configured.

			--terms exports the folders matching any term of a term list file, the
			same selection the search command displays.

			--geojson also writes a GeoJSON FeatureCollection of the folders with
			coordinates (implies --geo). --s3 uploads the CSV to s3://bucket/key using
			the default AWS credential chain.
		`),
		Example: heredoc.Doc(`
			scenecat export scenes.csv K3A --sort DateTime
			scenecat export scenes.csv --terms scene-ids.txt --encoding euc-kr
			scenecat export scenes.csv --geojson scenes.geojson --s3 s3://bucket/exports/scenes.csv
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.HandleQuery(cmd, args[1:])
			if err != nil {
				return err
			}
			terms, err := flags.HandleTerms(cmd, s.Workspace.TermEncoding)
			if err != nil {
				return err
			}
			if terms != nil {
				if q.Search.Text != "" {
					return fmt.Errorf("query arguments cannot be combined with --terms")
				}
				q.Search.Terms = terms
			}
			if geojsonPath != "" {
				q.Geo = true
			}

			var bucket, key string
			if s3URL != "" {
				if bucket, key, err = publish.ParseS3URL(s3URL); err != nil {
					return err
				}
			}

			res, err := cmdpkg.Collect(s, q, false)
			if err != nil {
				return err
			}

			var csvBuf bytes.Buffer
			if err := export.WriteCSV(&csvBuf, res.Records); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if args[0] == "-" {
				if _, err := out.Write(csvBuf.Bytes()); err != nil {
					return err
				}
			} else {
				path := resolvePath(s.Workspace.ExportDir, args[0])
				if err := writeFile(path, csvBuf.Bytes()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d folders to %s\n", len(res.Records), path)
			}

			if geojsonPath != "" {
				path := resolvePath(s.Workspace.ExportDir, geojsonPath)
				if err := writeGeoJSON(path, res.Records); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote GeoJSON to %s\n", path)
			}

			if bucket != "" {
				p, err := NewPublisher(cmd)
				if err != nil {
					return err
				}
				loc, err := p.Upload(cmd.Context(), bucket, key, "text/csv", bytes.NewReader(csvBuf.Bytes()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Uploaded to %s\n", loc)
			}

			return nil
		},
	}

	flags.AddQuery(cmd)
	flags.AddTerms(cmd)
	cmd.Flags().StringVar(&geojsonPath, "geojson", "", "Also write a GeoJSON FeatureCollection to this file")
	cmd.Flags().StringVar(&s3URL, "s3", "", "Upload the CSV to s3://bucket/key")

	return cmd
}

func resolvePath(exportDir, name string) string {
	if exportDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(exportDir, name)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func writeGeoJSON(path string, records []catalog.Record) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return export.WriteGeoJSON(f, records)
}
