package report

// Align positions cell text inside its column.
type Align int

// Alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Kind selects how a column renders.
type Kind int

// Column kinds.
const (
	// KindText renders the cell text as-is.
	KindText Kind = iota
	// KindBar renders the row's ratio as a horizontal bar; the cell text is
	// ignored.
	KindBar
)

// Column is a layout directive for one table column.
type Column struct {
	// Header is the column heading. Empty suppresses the header row for
	// this column.
	Header string

	Align Align
	Kind  Kind

	// Width fixes the column width. Zero fits the widest cell.
	Width int

	// Remaining gives this column whatever width the others leave over.
	// At most one column per table should set it.
	Remaining bool
}

// Row is one table row: pre-formatted cell text per text column, plus the
// ratio a bar column renders. Ratio is in [0, 1].
type Row struct {
	Cells []string
	Ratio float64
}

// Sink receives report content from trackers. Implementations own all
// layout decisions.
type Sink interface {
	// Title announces a report section.
	Title(title string)

	// Table renders rows under the given column directives.
	Table(cols []Column, rows []Row)

	// Line renders one plain line, e.g. the "None found." marker.
	Line(text string)
}
