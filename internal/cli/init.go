package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avolkers/sqlgate/internal/config"
	"github.com/avolkers/sqlgate/internal/tui"
)

const mysqlConfigTemplate = `# sqlgate project configuration
connection:
  host: localhost
  port: 3306
  username: app
  database: app
  # tls: preferred
  # auth_method: aws-iam
  # aws_region: us-west-2

# Extra driver DSN parameters
# params:
#   charset: utf8mb4

# retry:
#   max_attempts: 3
#   base_delay: 2s

# log_file: errors.log
`

const sqliteConfigTemplate = `# sqlgate project configuration
sqlite:
  path: app.db
  bootstrap_script: schema.sql

# retry:
#   max_attempts: 3
#   base_delay: 2s

# log_file: errors.log
`

const schemaTemplate = `-- Schema bootstrap script.
-- Runs once against a fresh database file (fewer than 2 tables).

CREATE TABLE example (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE example_audit (
	id INTEGER PRIMARY KEY,
	example_id INTEGER REFERENCES example(id),
	changed_at TEXT NOT NULL
);
`

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Scaffold a sqlgate project",
	Long: `Create a sqlgate.yaml (and, for the embedded backend, a schema.sql
bootstrap script) in the target directory. Existing files are never
overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		backend, _ := cmd.Flags().GetString("backend")
		if backend == "" {
			var err error
			backend, err = pickBackend()
			if err != nil {
				return err
			}
		}
		if backend != "mysql" && backend != "sqlite" {
			return fmt.Errorf("invalid argument %q for --backend: use mysql or sqlite", backend)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		configPath := filepath.Join(dir, config.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists, refusing to overwrite", configPath)
		}

		content := mysqlConfigTemplate
		if backend == "sqlite" {
			content = sqliteConfigTemplate
		}
		if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", configPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", configPath)

		if backend == "sqlite" {
			schemaPath := filepath.Join(dir, "schema.sql")
			if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
				if err := os.WriteFile(schemaPath, []byte(schemaTemplate), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", schemaPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", schemaPath)
			}
		}

		return nil
	},
}

// pickBackend asks interactively when --backend was omitted.
func pickBackend() (string, error) {
	if !tui.IsInteractive() {
		return "", fmt.Errorf("required flag \"backend\" not set")
	}
	return tui.RunSelector("Choose a backend", []tui.Option{
		{Label: "MariaDB / MySQL", Description: "networked server", Value: "mysql"},
		{Label: "SQLite", Description: "embedded database file", Value: "sqlite"},
	})
}

func init() {
	initCmd.Flags().String("backend", "", "Backend to scaffold: mysql or sqlite")
	rootCmd.AddCommand(initCmd)
}
