package tui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vvka-141/ldmcsv/internal/schema"
)

// ErrReviewAborted is returned when the user leaves the review without confirming.
var ErrReviewAborted = errors.New("column review aborted")

// ReviewModel lets the user cycle the LDM type of freshly generated columns.
type ReviewModel struct {
	schemaName     string
	columns        []schema.Column
	labelReference string
	cursor         int
	keys           KeyMap
	confirmed      bool
	aborted        bool
}

// NewReviewModel works on a copy of columns; read the result with Columns.
func NewReviewModel(schemaName string, columns []schema.Column, labelReference string) ReviewModel {
	return ReviewModel{
		schemaName:     schemaName,
		columns:        slices.Clone(columns),
		labelReference: labelReference,
		keys:           DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(km, m.keys.Down):
		if m.cursor < len(m.columns)-1 {
			m.cursor++
		}
	case key.Matches(km, m.keys.Next):
		m.cycle(1)
	case key.Matches(km, m.keys.Prev):
		m.cycle(-1)
	case key.Matches(km, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(km, m.keys.Abort):
		m.aborted = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *ReviewModel) cycle(step int) {
	if len(m.columns) == 0 {
		return
	}
	col := &m.columns[m.cursor]
	n := len(schema.LdmTypes)
	i := slices.Index(schema.LdmTypes, col.LdmType)
	if i < 0 {
		i = 0
	}
	col.LdmType = schema.LdmTypes[((i+step)%n+n)%n]

	if col.LdmType.NeedsReference() {
		if col.Reference == "" {
			col.Reference = m.labelReference
		}
	} else {
		col.Reference = ""
	}
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("New columns for %s", m.schemaName)))
	b.WriteString("\n")

	for i, col := range m.columns {
		style, symbol := UnselectedStyle, SymbolUnselected
		if i == m.cursor {
			style, symbol = SelectedStyle, SymbolSelected
		}
		line := fmt.Sprintf("%s %-30s %s", symbol, col.Title, TypeStyle.Render(string(col.LdmType)))
		if col.Reference != "" {
			line += " -> " + col.Reference
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(HelpStyle.Render(m.keys.HelpText()))
	return b.String()
}

// Columns returns the reviewed columns.
func (m ReviewModel) Columns() []schema.Column {
	return m.columns
}

// Confirmed reports whether the user accepted the columns.
func (m ReviewModel) Confirmed() bool {
	return m.confirmed
}

// Aborted reports whether the user left without confirming.
func (m ReviewModel) Aborted() bool {
	return m.aborted
}

// Apply copies the reviewed columns back over the added part of g.
func (m ReviewModel) Apply(g *schema.Generated) {
	copy(g.Added(), m.columns)
}

// RunReview returns a review hook that shows the added columns in a
// terminal program. It does nothing when no columns were added.
func RunReview(labelReference string, opts ...tea.ProgramOption) func(*schema.Generated) error {
	return func(g *schema.Generated) error {
		added := g.Added()
		if len(added) == 0 {
			return nil
		}

		final, err := tea.NewProgram(NewReviewModel(g.Schema.Name, added, labelReference), opts...).Run()
		if err != nil {
			return fmt.Errorf("column review: %w", err)
		}

		m := final.(ReviewModel)
		if !m.Confirmed() {
			return ErrReviewAborted
		}
		m.Apply(g)
		return nil
	}
}

// RenderColumns renders columns as a plain table.
func RenderColumns(columns []schema.Column) string {
	rows := make([][]string, 0, len(columns)+1)
	rows = append(rows, []string{"NAME", "TYPE", "TITLE", "FOLDER", "REFERENCE"})
	for _, c := range columns {
		rows = append(rows, []string{c.Name, string(c.LdmType), c.Title, c.Folder, c.Reference})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	lines := make([]string, 0, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = lipgloss.NewStyle().Width(widths[i]).Render(cell)
		}
		line := strings.TrimRight(strings.Join(cells, "  "), " ")
		if r == 0 {
			line = HeaderStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
