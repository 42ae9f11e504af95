package browse

import (
	"github.com/MakeNowJust/heredoc/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/state"
	"github.com/Paintersrp/scenecat/internal/tui/browse"
)

func NewCmdBrowse(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"b"},
		Short:   "Browse the catalog interactively",
		Long: heredoc.Doc(`
			Opens an interactive table of every dataset folder under the catalog root.

			Press / to filter (all space separated terms must match), tab to pick a
			sort column and s to sort by it; s again reverses. enter opens the folder,
			y copies its path, g derives coordinates from KML sidecars, r rescans and
			ctrl+e exports the visible rows as CSV to the workspace export directory.
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer s.Close()

			m, err := browse.NewModel(s)
			if err != nil {
				return err
			}

			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	return cmd
}
