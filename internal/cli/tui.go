package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// CategoryPickerModel - Interactive category selection
// =============================================================================

// CategoryPickerModel is the bubbletea model for choosing which categories
// to render.
type CategoryPickerModel struct {
	Categories []string
	Cursor     int
	Checked    map[int]bool
	Confirmed  bool
	Height     int
	Offset     int
}

// NewCategoryPickerModel creates a picker over categories.
func NewCategoryPickerModel(categories []string) CategoryPickerModel {
	return CategoryPickerModel{
		Categories: categories,
		Checked:    make(map[int]bool),
		Height:     15,
	}
}

func (m CategoryPickerModel) Init() tea.Cmd {
	return nil
}

func (m CategoryPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Confirmed = false
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Categories)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.chosenIndexes()) < len(m.Categories)
			for i := range m.Categories {
				m.Checked[i] = all
			}
		case "enter":
			if len(m.Categories) == 0 {
				return m, tea.Quit
			}
			if len(m.chosenIndexes()) == 0 {
				m.Checked[m.Cursor] = true
			}
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-6)
	}
	return m, nil
}

func (m CategoryPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Categories"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Categories))
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[i] {
			box = listCheckedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s%s %s", cursor, box, m.Categories[i])
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d selected of %d]", len(m.chosenIndexes()), len(m.Categories))))
	return b.String()
}

// Chosen returns the selected categories in list order, or nil when the
// picker was cancelled.
func (m CategoryPickerModel) Chosen() []string {
	if !m.Confirmed {
		return nil
	}
	idx := m.chosenIndexes()
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = m.Categories[j]
	}
	return out
}

func (m CategoryPickerModel) chosenIndexes() []int {
	var idx []int
	for i := range m.Categories {
		if m.Checked[i] {
			idx = append(idx, i)
		}
	}
	return idx
}
