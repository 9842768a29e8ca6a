package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Terminal renders reports as plain-text tables with ratio bars.
type Terminal struct {
	w     io.Writer
	width int
	color bool

	titleStyle lipgloss.Style
	barStyle   lipgloss.Style
}

// TerminalOption configures a Terminal renderer.
type TerminalOption func(*Terminal)

// WithWidth sets the total table width. Default 80.
func WithWidth(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 20 {
			t.width = width
		}
	}
}

// WithColor toggles styled output. Off, the bars still render but unstyled.
func WithColor(enabled bool) TerminalOption {
	return func(t *Terminal) { t.color = enabled }
}

// NewTerminal creates a renderer writing to w.
func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{w: w, width: 80}
	for _, opt := range opts {
		opt(t)
	}
	if t.color {
		t.titleStyle = lipgloss.NewStyle().Bold(true)
		t.barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	}
	return t
}

// Title renders a section heading with an underline.
func (t *Terminal) Title(title string) {
	if title == "" {
		return
	}
	rendered := title
	if t.color {
		rendered = t.titleStyle.Render(title)
	}
	fmt.Fprintf(t.w, "\n%s\n%s\n", rendered, strings.Repeat("=", runewidth.StringWidth(title)))
}

// Line renders one plain line.
func (t *Terminal) Line(text string) {
	fmt.Fprintln(t.w, text)
}

// Table lays the rows out: fixed and fitted columns are sized first, then a
// Remaining column takes what is left of the configured width.
func (t *Terminal) Table(cols []Column, rows []Row) {
	if len(rows) == 0 {
		return
	}
	widths := t.columnWidths(cols, rows)

	if hasHeaders(cols) {
		var cells []string
		for i, col := range cols {
			cells = append(cells, pad(col.Header, widths[i], col.Align))
		}
		fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	for _, row := range rows {
		var cells []string
		for i, col := range cols {
			switch col.Kind {
			case KindBar:
				cells = append(cells, t.bar(row.Ratio, widths[i]))
			default:
				text := ""
				if i < len(row.Cells) {
					text = row.Cells[i]
				}
				cells = append(cells, pad(text, widths[i], col.Align))
			}
		}
		fmt.Fprintln(t.w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// columnWidths resolves the width of every column.
func (t *Terminal) columnWidths(cols []Column, rows []Row) []int {
	widths := make([]int, len(cols))
	used := 0
	remainingIdx := -1

	for i, col := range cols {
		if col.Remaining {
			remainingIdx = i
			continue
		}
		w := col.Width
		if w == 0 {
			w = runewidth.StringWidth(col.Header)
			for _, row := range rows {
				if i < len(row.Cells) {
					if cw := runewidth.StringWidth(row.Cells[i]); cw > w {
						w = cw
					}
				}
			}
		}
		widths[i] = w
		used += w
	}

	if remainingIdx >= 0 {
		// Two spaces of gutter between each pair of columns.
		gutters := 2 * (len(cols) - 1)
		rest := t.width - used - gutters
		if rest < 1 {
			rest = 1
		}
		widths[remainingIdx] = rest
	}
	return widths
}

// bar renders a ratio as a filled bar of the given width.
func (t *Terminal) bar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(width) + 0.5)
	if filled == 0 && ratio > 0 {
		filled = 1 // a nonzero count always shows
	}
	bar := strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
	if t.color {
		return t.barStyle.Render(bar)
	}
	return bar
}

func hasHeaders(cols []Column) bool {
	for _, col := range cols {
		if col.Header != "" {
			return true
		}
	}
	return false
}

// pad aligns text inside a fixed width, truncating with an ellipsis when it
// does not fit.
func pad(text string, width int, align Align) string {
	if runewidth.StringWidth(text) > width {
		return runewidth.Truncate(text, width, "…")
	}
	if align == AlignRight {
		return runewidth.FillLeft(text, width)
	}
	return runewidth.FillRight(text, width)
}
