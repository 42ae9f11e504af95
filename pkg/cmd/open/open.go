package open

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/fzf"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
)

var writeClipboard = clipboard.WriteAll

// pick runs the fuzzy finder. Tests replace it.
var pick = func(f *fzf.FuzzyFinder, query string) (string, error) {
	r, err := f.Run(query)
	return r.Name, err
}

func NewCmdOpen(s *state.State) *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "open [folder]",
		Aliases: []string{"o"},
		Short:   "Open a folder in the file manager",
		Long: heredoc.Doc(`
			Opens a catalog folder with the workspace open_command, or the platform
			file manager when none is set.

			When the argument is not an existing folder, or no argument is given, the
			catalog is shown in a fuzzy finder with a preview of the parsed columns.
			--copy puts the folder path on the clipboard instead of opening it.
		`),
		Example: "scenecat open K3A_20230101 --copy",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := chooseFolder(s, args)
			if err != nil {
				return err
			}

			if copyPath {
				path := s.Handler.Path(name)
				if err := writeClipboard(path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %s\n", path)
				return nil
			}

			return s.Handler.Open(name)
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Copy the folder path to the clipboard")

	return cmd
}

func chooseFolder(s *state.State, args []string) (string, error) {
	query := ""
	if len(args) == 1 {
		name, err := cmdpkg.ResolveFolderName(s, args[0])
		if err == nil {
			if info, statErr := os.Stat(s.Handler.Path(name)); statErr == nil && info.IsDir() {
				return name, nil
			}
		}
		query = args[0]
	}

	records, err := s.Catalog()
	if err != nil {
		return "", err
	}
	return pick(fzf.NewFuzzyFinder(records, "Select a folder"), query)
}
