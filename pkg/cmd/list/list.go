/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package list

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/catalog"
	"github.com/Paintersrp/scenecat/internal/columns"
	"github.com/Paintersrp/scenecat/internal/state"
	cmdpkg "github.com/Paintersrp/scenecat/pkg/cmd"
	"github.com/Paintersrp/scenecat/pkg/flags"
)

func NewCmdList(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list [query...]",
		Aliases: []string{"ls"},
		Short:   "List dataset folders",
		Long: heredoc.Doc(`
			Lists the dataset folders under the catalog root with their name tokens
			split into columns. Query terms are matched case-insensitively against
			the folder name and all of them must match.

			Output is a table on a terminal and tab separated values otherwise.
		`),
		Example: heredoc.Doc(`
			scenecat list K3A L1C --sort SceneNo
			scenecat list --since 2023-01-01 --until 2023-03-31 --geo
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := flags.HandleQuery(cmd, args)
			if err != nil {
				return err
			}

			if count, _ := cmd.Flags().GetBool("count"); count {
				return printCount(cmd, s, q)
			}

			res, err := cmdpkg.Collect(s, q, false)
			if err != nil {
				return err
			}

			rows := make([][]string, len(res.Records))
			for i, r := range res.Records {
				rows[i] = columns.Row(r)
			}
			return cmdpkg.RenderTable(cmd.OutOrStdout(), columns.Names, rows)
		},
	}

	flags.AddQuery(cmd)
	cmd.Flags().BoolP("count", "c", false, "Only print the number of matching folders")

	return cmd
}

func printCount(cmd *cobra.Command, s *state.State, q flags.Query) error {
	if q.Search.Text == "" && q.Search.Since.IsZero() && q.Search.Until.IsZero() {
		fmt.Fprintln(cmd.OutOrStdout(), catalog.Count(s.Root))
		return nil
	}

	records, _, err := s.Scan(q.Search)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), len(records))
	return nil
}
