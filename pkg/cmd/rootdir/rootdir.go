package rootdir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/pathutil"
	"github.com/Paintersrp/scenecat/internal/state"
)

func NewCmdRoot(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "root [path]",
		Short: "Show or set the catalog root of the workspace",
		Long: heredoc.Doc(`
			Without an argument, prints the catalog root in effect, including any
			SCENECAT_ROOT or --root override, and its folder count.

			With a path, stores it as the root of the active workspace. The path
			must be an existing directory.
		`),
		Example: "scenecat root ~/datasets",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if s.Root == "" {
					fmt.Fprintln(out, "Catalog root is not set")
					return nil
				}
				fmt.Fprintf(out, "%s (%d folders)\n", s.Root, catalog.Count(s.Root))
				return nil
			}

			path, err := filepath.Abs(pathutil.ExpandHome(args[0]))
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", path)
			}

			if err := s.Config.SetRoot(path); err != nil {
				return err
			}
			s.Root = path

			fmt.Fprintf(out, "Catalog root for workspace %q set to %s\n", s.WorkspaceName, path)
			return nil
		},
	}

	return cmd
}
