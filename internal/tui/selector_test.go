package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testOptions() []Option {
	return []Option{
		{Label: "MariaDB / MySQL", Description: "networked backend", Value: "mysql"},
		{Label: "SQLite", Description: "embedded file backend", Value: "sqlite"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSelector_NavigateAndSelect(t *testing.T) {
	var model tea.Model = NewSelector("Choose a backend", testOptions())

	model, _ = model.Update(keyMsg("down"))
	model, cmd := model.Update(keyMsg("enter"))

	selector := model.(Selector)
	if !selector.submitted {
		t.Fatal("Expected selector to be submitted")
	}
	if selector.Value() != "sqlite" {
		t.Errorf("Expected value sqlite, got %q", selector.Value())
	}
	if cmd == nil {
		t.Error("Expected tea.Quit command after selection")
	}
}

func TestSelector_CursorStaysInBounds(t *testing.T) {
	var model tea.Model = NewSelector("Choose a backend", testOptions())

	model, _ = model.Update(keyMsg("up"))
	selector := model.(Selector)
	if selector.cursor != 0 {
		t.Errorf("Cursor moved above first option: %d", selector.cursor)
	}

	model, _ = model.Update(keyMsg("down"))
	model, _ = model.Update(keyMsg("down"))
	model, _ = model.Update(keyMsg("down"))
	selector = model.(Selector)
	if selector.cursor != 1 {
		t.Errorf("Cursor moved past last option: %d", selector.cursor)
	}
}

func TestSelector_Cancel(t *testing.T) {
	var model tea.Model = NewSelector("Choose a backend", testOptions())

	model, _ = model.Update(keyMsg("esc"))
	selector := model.(Selector)
	if !selector.Cancelled() {
		t.Error("Expected selector to be cancelled")
	}
	if selector.Value() != "" {
		t.Errorf("Cancelled selector should have no value, got %q", selector.Value())
	}
}

func TestSelector_ViewListsOptions(t *testing.T) {
	view := NewSelector("Choose a backend", testOptions()).View()

	for _, want := range []string{"Choose a backend", "MariaDB / MySQL", "SQLite", "embedded file backend"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}
