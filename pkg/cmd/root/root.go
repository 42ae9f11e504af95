package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/scenecat/internal/constants"
	"github.com/Paintersrp/scenecat/internal/logging"
	"github.com/Paintersrp/scenecat/internal/state"
	"github.com/Paintersrp/scenecat/pkg/cmd/browse"
	copycmd "github.com/Paintersrp/scenecat/pkg/cmd/copy"
	"github.com/Paintersrp/scenecat/pkg/cmd/export"
	"github.com/Paintersrp/scenecat/pkg/cmd/geo"
	"github.com/Paintersrp/scenecat/pkg/cmd/list"
	"github.com/Paintersrp/scenecat/pkg/cmd/open"
	"github.com/Paintersrp/scenecat/pkg/cmd/rootdir"
	"github.com/Paintersrp/scenecat/pkg/cmd/search"
	"github.com/Paintersrp/scenecat/pkg/cmd/workspace"
)

// Loader builds the state for a workspace name; empty selects the current
// workspace.
type Loader func(workspace string) (*state.State, error)

// NewCmdRoot wires the command tree around s. s is filled by load before any
// subcommand runs, after flags have been parsed, so --root and --workspace
// take effect.
func NewCmdRoot(s *state.State, load Loader) *cobra.Command {
	var (
		workspaceName string
		rootOverride  string
		verbose       bool
	)

	browseCmd := browse.NewCmdBrowse(s)

	cmd := &cobra.Command{
		Use:     constants.AppName,
		Version: constants.Version,
		Short:   "Catalog and search satellite dataset folders",
		Long: heredoc.Doc(`
			scenecat treats every folder directly under a catalog root as a dataset
			and splits its name on underscores into DataName, Source, DateTime,
			RequestNo, SceneNo, Direction, Swath, Mode and Level columns.

			Run without a subcommand to browse the catalog interactively.
		`),
		Example: heredoc.Doc(`
			scenecat root ~/datasets
			scenecat list K5 R2 --sort SceneNo
			scenecat search scene-ids.txt
		`),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         browseCmd.RunE,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(cmd.ErrOrStderr(), verbose)

			loaded, err := load(workspaceName)
			if err != nil {
				return err
			}
			*s = *loaded
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Workspace to use for this command")
	cmd.PersistentFlags().StringVar(&rootOverride, "root", "", "Catalog root for this command (overrides the workspace root)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	_ = viper.BindPFlag("root", cmd.PersistentFlags().Lookup("root"))

	cmd.AddCommand(
		browseCmd,
		list.NewCmdList(s),
		search.NewCmdSearch(s),
		geo.NewCmdGeo(s),
		export.NewCmdExport(s),
		copycmd.NewCmdCopy(s),
		open.NewCmdOpen(s),
		rootdir.NewCmdRoot(s),
		workspace.NewCmdWorkspace(s),
	)

	return cmd
}
