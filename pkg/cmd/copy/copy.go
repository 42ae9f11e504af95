package copy

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/confirmation"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/search"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

// confirm asks before a batch copy runs. Tests replace it.
var confirm = func(prompt string) (bool, error) {
	return confirmation.New(prompt, confirmation.No).RunPrompt()
}

func NewCmdCopy(s *state.State) *cobra.Command {
	var (
		query string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:     "copy <dest> [folder...]",
		Aliases: []string{"cp"},
		Short:   "Copy folders out of the catalog",
		Long: heredoc.Doc(`
			Recursively copies catalog folders into dest, keeping their names. Folders
			may be given by name, by path below the root, selected with --query, or
			selected with --terms from a term list file like the search command.

			A folder whose name already exists in dest is skipped and reported; the
			remaining folders are still copied. The command fails if any folder failed.
		`),
		Example: heredoc.Doc(`
			scenecat copy /mnt/usb K3A_20230101_R1_2
			scenecat copy /mnt/usb --query "k5 r2" --yes
			scenecat copy /mnt/usb --terms scene-ids.txt
		`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := args[0]

			terms, err := flags.HandleTerms(cmd, s.Workspace.TermEncoding)
			if err != nil {
				return err
			}
			if terms != nil && strings.TrimSpace(query) != "" {
				return fmt.Errorf("--query cannot be combined with --terms")
			}

			names, err := selectNames(s, args[1:], search.Query{Text: query, Terms: terms})
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no folders to copy")
			}

			if !yes {
				ok, err := confirm(fmt.Sprintf("Copy %d folders to %s?", len(names), dest))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Copy cancelled")
					return nil
				}
			}

			report := s.Handler.CopyFolders(names, dest)
			out := cmd.OutOrStdout()
			for _, name := range report.Copied {
				fmt.Fprintf(out, "Copied %s\n", name)
			}
			for _, f := range report.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed %s: %v\n", f.Name, f.Err)
			}
			fmt.Fprintf(out, "%d copied, %d failed\n", len(report.Copied), len(report.Failed))

			return report.Err()
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Copy every folder matching this AND query")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	flags.AddTerms(cmd)

	return cmd
}

func selectNames(s *state.State, args []string, q search.Query) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	for _, arg := range args {
		name, err := cmdpkg.ResolveFolderName(s, arg)
		if err != nil {
			return nil, err
		}
		add(name)
	}

	if q.IsTermSearch() || strings.TrimSpace(q.Text) != "" {
		records, _, err := s.Scan(q)
		if err != nil {
			return nil, err
		}
		for _, name := range catalog.Names(records) {
			add(name)
		}
	}

	return names, nil
}
