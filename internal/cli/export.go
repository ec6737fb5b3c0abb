package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/export"
	"github.com/avolkers/sqlgate/internal/tui"
)

var exportFlags connectionFlags

var exportCmd = &cobra.Command{
	Use:   "export <statement>",
	Short: "Run a read-only statement and write the rows to a file",
	Long: `Run a read-only statement and write the result to a .csv or .json file,
picked by the output file's extension.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			var err error
			out, err = pickExportTarget()
			if err != nil {
				return err
			}
		}

		s, err := newSession(cmd, &exportFlags)
		if err != nil {
			return err
		}
		defer s.close()

		columns, rows, err := s.reader().SelectWithColumns(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		result := export.Result{Columns: columns, Rows: rows}
		if err := export.WriteFile(out, result); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s\n", len(rows), out)
		return nil
	},
}

// pickExportTarget asks for a format interactively when --out was omitted.
func pickExportTarget() (string, error) {
	if !tui.IsInteractive() {
		return "", fmt.Errorf("required flag \"out\" not set")
	}

	format, err := tui.RunSelector("Choose an export format", []tui.Option{
		{Label: "CSV", Description: "comma-separated values", Value: "csv"},
		{Label: "JSON", Description: "array of objects", Value: "json"},
	})
	if err != nil {
		return "", err
	}
	return filepath.Join(".", "export."+format), nil
}

func init() {
	addConnectionFlags(exportCmd, &exportFlags)
	exportCmd.Flags().String("out", "", "Output file (.csv or .json)")
	rootCmd.AddCommand(exportCmd)
}
