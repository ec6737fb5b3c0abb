package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Option represents a selectable option in the selector.
type Option struct {
	Label       string
	Description string
	Value       string
}

// Selector is a list picker used by init and export to choose a backend or
// a data file when no flag was given.
type Selector struct {
	title     string
	options   []Option
	cursor    int
	selected  int
	keyMap    selectorKeyMap
	submitted bool
	cancelled bool
}

type selectorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultSelectorKeyMap() selectorKeyMap {
	return selectorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// NewSelector creates a new selector component.
func NewSelector(title string, options []Option) Selector {
	return Selector{
		title:    title,
		options:  options,
		selected: -1,
		keyMap:   defaultSelectorKeyMap(),
	}
}

// Init implements tea.Model.
func (s Selector) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, s.keyMap.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, s.keyMap.Down):
			if s.cursor < len(s.options)-1 {
				s.cursor++
			}
		case key.Matches(msg, s.keyMap.Select):
			s.selected = s.cursor
			s.submitted = true
			return s, tea.Quit
		case key.Matches(msg, s.keyMap.Quit):
			s.cancelled = true
			return s, tea.Quit
		}
	}
	return s, nil
}

// View implements tea.Model.
func (s Selector) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(s.title))
	b.WriteString("\n\n")

	for i, opt := range s.options {
		style := UnselectedStyle
		symbol := SymbolUnselected
		if i == s.cursor {
			style = SelectedStyle
			symbol = SymbolSelected
		}

		b.WriteString(style.Render(symbol + " " + opt.Label))
		b.WriteString("\n")
		if opt.Description != "" {
			b.WriteString(DescriptionStyle.Render(opt.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString(HelpStyle.Render("\n↑/↓ navigate • enter select • q quit"))
	return b.String()
}

// Cancelled returns true if the user dismissed the picker.
func (s Selector) Cancelled() bool {
	return s.cancelled
}

// Value returns the value of the selected option, or "" if nothing was
// selected.
func (s Selector) Value() string {
	if s.selected >= 0 && s.selected < len(s.options) {
		return s.options[s.selected].Value
	}
	return ""
}

// RunSelector runs the picker and returns the chosen value. Returns an error
// when the user cancels.
func RunSelector(title string, options []Option) (string, error) {
	model, err := tea.NewProgram(NewSelector(title, options)).Run()
	if err != nil {
		return "", fmt.Errorf("selector failed: %w", err)
	}

	selector, ok := model.(Selector)
	if !ok || selector.Cancelled() || !selector.submitted {
		return "", fmt.Errorf("selection cancelled")
	}
	return selector.Value(), nil
}
