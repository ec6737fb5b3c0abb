package cli

import (
	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/export"
)

var queryFlags connectionFlags

var queryCmd = &cobra.Command{
	Use:   "query <statement>",
	Short: "Run a read-only statement and print the rows",
	Long: `Run a read-only statement against the selected backend and print all rows
in order. An empty result prints an empty table, never an error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, &queryFlags)
		if err != nil {
			return err
		}
		defer s.close()

		columns, rows, err := s.reader().SelectWithColumns(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("output")
		return renderResult(cmd.OutOrStdout(), export.Result{Columns: columns, Rows: rows}, format)
	},
}

func init() {
	addConnectionFlags(queryCmd, &queryFlags)
	queryCmd.Flags().StringP("output", "o", "table", "Output format: table, csv or json")
	rootCmd.AddCommand(queryCmd)
}
