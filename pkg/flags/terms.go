package flags

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/scenecat/internal/search"
)

func AddTerms(cmd *cobra.Command) {
	cmd.Flags().String("terms", "", "Select folders matching any term of this file, one term per line")
	cmd.Flags().StringP("encoding", "e", "", "Term file encoding: utf-8, euc-kr or auto (default from workspace)")
}

// HandleTerms loads the --terms file. It returns nil when the flag is unset,
// so the query stays an AND query.
func HandleTerms(cmd *cobra.Command, defaultEncoding string) ([]string, error) {
	path, _ := cmd.Flags().GetString("terms")
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	encoding, _ := cmd.Flags().GetString("encoding")
	if encoding == "" {
		encoding = defaultEncoding
	}
	return search.LoadTermsFile(path, encoding)
}
