package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/export"
	"github.com/avolkers/sqlgate/internal/tui"
)

var execFlags connectionFlags

var execCmd = &cobra.Command{
	Use:   "exec <statement> [param...]",
	Short: "Run a write statement and print the affected-row count",
	Long: `Run a write statement against the selected backend.

With no parameters the statement runs as-is. With positional parameters it
runs once, bound to them. With --batch-csv it runs once per CSV record inside
a single transaction, and the printed count is the total across the batch.

A failed write is always reported as an error, never as zero affected rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		batchPath, _ := cmd.Flags().GetString("batch-csv")
		if batchPath != "" && len(args) > 1 {
			return fmt.Errorf("invalid argument: positional parameters cannot be combined with --batch-csv")
		}

		s, err := newSession(cmd, &execFlags)
		if err != nil {
			return err
		}
		defer s.close()

		stmt := args[0]
		var affected int64

		switch {
		case batchPath != "":
			batchPath, err = resolveBatchFile(batchPath)
			if err != nil {
				return err
			}
			paramSets, err := loadBatchParams(batchPath)
			if err != nil {
				return err
			}
			affected, err = s.writer().ExecBatch(cmd.Context(), stmt, paramSets)
			if err != nil {
				return err
			}
		case len(args) > 1:
			params := make([]any, 0, len(args)-1)
			for _, arg := range args[1:] {
				params = append(params, arg)
			}
			affected, err = s.writer().ExecOne(cmd.Context(), stmt, params...)
			if err != nil {
				return err
			}
		default:
			affected, err = s.writer().Exec(cmd.Context(), stmt)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", affected)
		return nil
	},
}

// resolveBatchFile lets --batch-csv point at a directory, in which case the
// CSV inside is picked interactively.
func resolveBatchFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to read batch file: %w", err)
	}
	if !info.IsDir() {
		return path, nil
	}
	if !tui.IsInteractive() {
		return "", fmt.Errorf("%s is a directory; pass a .csv file", path)
	}

	names, err := export.ListDataFiles(path, ".csv")
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no .csv files in %s", path)
	}

	options := make([]tui.Option, 0, len(names))
	for _, name := range names {
		options = append(options, tui.Option{Label: name, Value: name})
	}
	choice, err := tui.RunSelector("Choose a batch file", options)
	if err != nil {
		return "", err
	}
	return filepath.Join(path, choice), nil
}

// loadBatchParams reads a CSV file into one parameter set per record.
func loadBatchParams(path string) ([][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}

	paramSets := make([][]any, 0, len(records))
	for _, record := range records {
		params := make([]any, len(record))
		for i, field := range record {
			params[i] = field
		}
		paramSets = append(paramSets, params)
	}
	return paramSets, nil
}

func init() {
	addConnectionFlags(execCmd, &execFlags)
	execCmd.Flags().String("batch-csv", "", "CSV file with one parameter set per record")
	rootCmd.AddCommand(execCmd)
}
