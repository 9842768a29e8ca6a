package report

import (
	"fmt"
	"strings"
)

// Recording is a Sink that captures the semantic calls it receives.
// Tests compare recordings directly instead of parsing rendered text, and
// two recordings of an unchanged tracker must be equal.
type Recording struct {
	Titles []string
	Lines  []string
	Tables []RecordedTable
}

// RecordedTable is one captured Table call.
type RecordedTable struct {
	Cols []Column
	Rows []Row
}

// Title implements Sink.
func (r *Recording) Title(title string) {
	r.Titles = append(r.Titles, title)
}

// Line implements Sink.
func (r *Recording) Line(text string) {
	r.Lines = append(r.Lines, text)
}

// Table implements Sink. Columns and rows are copied so later mutation by
// the caller cannot alter the recording.
func (r *Recording) Table(cols []Column, rows []Row) {
	t := RecordedTable{
		Cols: append([]Column(nil), cols...),
		Rows: make([]Row, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = Row{
			Cells: append([]string(nil), row.Cells...),
			Ratio: row.Ratio,
		}
	}
	r.Tables = append(r.Tables, t)
}

// String renders the recording in a stable textual form, usable both for
// debugging and as an idempotence witness.
func (r *Recording) String() string {
	var b strings.Builder
	for _, title := range r.Titles {
		fmt.Fprintf(&b, "title: %s\n", title)
	}
	for _, line := range r.Lines {
		fmt.Fprintf(&b, "line: %s\n", line)
	}
	for _, table := range r.Tables {
		for _, row := range table.Rows {
			fmt.Fprintf(&b, "row: %s ratio=%.4f\n", strings.Join(row.Cells, " | "), row.Ratio)
		}
	}
	return b.String()
}
