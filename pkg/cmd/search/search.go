package search

import (
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/search"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

func NewCmdSearch(s *state.State) *cobra.Command {
	var (
		encoding    string
		exactReport bool
	)

	cmd := &cobra.Command{
		Use:   "search <terms-file>",
		Short: "Find folders matching any term of a list",
		Long: heredoc.Doc(`
			Reads one term per line from a text file and keeps every folder whose name
			contains at least one of them, case-insensitively. Blank lines are ignored.

			After the matching rows a report lists the terms that matched nothing, so
			typos in scene ID lists stand out. --exact-report adds the terms that are
			not an exact folder name.

			Term files may be UTF-8 or EUC-KR; auto detects the encoding.
		`),
		Example: "scenecat search scene-ids.txt --encoding euc-kr",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if encoding == "" {
				encoding = s.Workspace.TermEncoding
			}
			terms, err := search.LoadTermsFile(args[0], encoding)
			if err != nil {
				return err
			}

			q, err := flags.HandleQuery(cmd, nil)
			if err != nil {
				return err
			}
			q.Search.Terms = terms

			res, err := cmdpkg.Collect(s, q, false)
			if err != nil {
				return err
			}

			rows := make([][]string, len(res.Records))
			for i, r := range res.Records {
				rows[i] = columns.Row(r)
			}
			if err := cmdpkg.RenderTable(cmd.OutOrStdout(), columns.Names, rows); err != nil {
				return err
			}

			return cmdpkg.RenderMarkdown(cmd.OutOrStdout(), ReportMarkdown(*res.Report, len(terms), exactReport))
		},
	}

	flags.AddQuery(cmd)
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "Term file encoding: utf-8, euc-kr or auto (default from workspace)")
	cmd.Flags().BoolVar(&exactReport, "exact-report", false, "Also list terms that are not an exact folder name")

	return cmd
}

// ReportMarkdown formats a match report.
func ReportMarkdown(r search.MatchReport, termCount int, exact bool) string {
	var b strings.Builder
	b.WriteString("## Match report\n\n")
	fmt.Fprintf(&b, "- Terms read: %d\n", termCount)
	fmt.Fprintf(&b, "- Matching folders: %d\n", r.MatchedCount)
	fmt.Fprintf(&b, "- Unmatched terms: %d\n", len(r.UnmatchedTerms))

	writeTerms(&b, "Unmatched terms", r.UnmatchedTerms)
	if exact {
		writeTerms(&b, "Terms without an exact folder", r.ExactMisses)
	}
	return b.String()
}

func writeTerms(b *strings.Builder, title string, terms []string) {
	if len(terms) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, term := range terms {
		fmt.Fprintf(b, "- `%s`\n", strings.ReplaceAll(term, "`", "'"))
	}
}
