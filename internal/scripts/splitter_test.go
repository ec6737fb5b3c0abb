package scripts

import (
	"reflect"
	"testing"
)

func TestSplitStatements_Basic(t *testing.T) {
	script := `CREATE TABLE users (id INTEGER); INSERT INTO users VALUES (1);`
	got := SplitStatements(script)
	want := []string{
		"CREATE TABLE users (id INTEGER)",
		"INSERT INTO users VALUES (1)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitStatements() = %v, want %v", got, want)
	}
}

func TestSplitStatements_SemicolonInStringLiteral(t *testing.T) {
	script := `INSERT INTO notes VALUES ('a;b'); SELECT 1;`
	got := SplitStatements(script)
	want := []string{
		"INSERT INTO notes VALUES ('a;b')",
		"SELECT 1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitStatements() = %v, want %v", got, want)
	}
}

func TestSplitStatements_EscapedQuote(t *testing.T) {
	script := `INSERT INTO notes VALUES ('it''s; fine'); SELECT 1;`
	got := SplitStatements(script)
	if len(got) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %v", len(got), got)
	}
	if got[0] != `INSERT INTO notes VALUES ('it''s; fine')` {
		t.Errorf("First statement mangled: %q", got[0])
	}
}

func TestSplitStatements_QuotedIdentifiers(t *testing.T) {
	script := "CREATE TABLE `odd;name` (x INT); CREATE TABLE \"other;name\" (y INT);"
	got := SplitStatements(script)
	if len(got) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %v", len(got), got)
	}
}

func TestSplitStatements_Comments(t *testing.T) {
	script := `-- leading comment; with semicolon
CREATE TABLE t (x INT); /* block; comment */ SELECT 1;
SELECT 2; -- trailing`
	got := SplitStatements(script)
	want := []string{
		"CREATE TABLE t (x INT)",
		"SELECT 1",
		"SELECT 2",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitStatements() = %v, want %v", got, want)
	}
}

func TestSplitStatements_TrailingStatementWithoutSemicolon(t *testing.T) {
	got := SplitStatements("SELECT 1; SELECT 2")
	want := []string{"SELECT 1", "SELECT 2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitStatements() = %v, want %v", got, want)
	}
}

func TestSplitStatements_EmptyAndWhitespaceOnly(t *testing.T) {
	cases := []string{"", "   \n\t  ", ";;;", "-- only a comment", "/* only a comment */"}
	for _, script := range cases {
		if got := SplitStatements(script); len(got) != 0 {
			t.Errorf("SplitStatements(%q) = %v, want empty", script, got)
		}
	}
}

func TestSplitStatements_MultilineStatement(t *testing.T) {
	script := `CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);`
	got := SplitStatements(script)
	if len(got) != 1 {
		t.Fatalf("Expected 1 statement, got %d: %v", len(got), got)
	}
}

func TestAbbreviate(t *testing.T) {
	tests := []struct {
		name string
		stmt string
		max  int
		want string
	}{
		{"short unchanged", "SELECT 1", 60, "SELECT 1"},
		{"whitespace collapsed", "SELECT\n\t1", 60, "SELECT 1"},
		{"truncated with ellipsis", "SELECT something very long indeed", 20, "SELECT something ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Abbreviate(tt.stmt, tt.max); got != tt.want {
				t.Errorf("Abbreviate() = %q, want %q", got, tt.want)
			}
		})
	}
}
