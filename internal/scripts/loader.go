package scripts

import (
	"fmt"
	"os"

	"github.com/avolkers/sqlgate/pkg/sqlgate"
)

// Load reads a SQL script from disk. A missing file is reported with the
// ErrScriptNotFound sentinel so callers can map it to the right exit code.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("script %s: %w", path, sqlgate.ErrScriptNotFound)
		}
		return "", fmt.Errorf("failed to read script %s: %w", path, err)
	}
	return string(data), nil
}

// LoadStatements reads a SQL script and splits it into statements.
func LoadStatements(path string) ([]string, error) {
	script, err := Load(path)
	if err != nil {
		return nil, err
	}
	return SplitStatements(script), nil
}
