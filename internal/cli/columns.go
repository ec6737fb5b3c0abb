package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/export"
	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

var columnsFlags connectionFlags

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Describe the columns of a table (embedded backend only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, &columnsFlags)
		if err != nil {
			return err
		}
		defer s.close()

		if s.sqlite == nil {
			return fmt.Errorf("%w: columns requires the embedded backend (--sqlite)", sqlgate.ErrInvalidConfig)
		}

		rows, err := s.sqlite.TableColumns(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("output")
		result := export.Result{
			Columns: []string{"cid", "name", "type", "notnull", "dflt_value", "pk"},
			Rows:    rows,
		}
		return renderResult(cmd.OutOrStdout(), result, format)
	},
}

func init() {
	addConnectionFlags(columnsCmd, &columnsFlags)
	columnsCmd.Flags().StringP("output", "o", "table", "Output format: table, csv or json")
	rootCmd.AddCommand(columnsCmd)
}
