// pkg/output/table.go

package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"unicode/utf8"
)

// TableWriter builds and prints an aligned table.
type TableWriter struct {
	writer     *tabwriter.Writer
	headers    []string
	rows       [][]string
	separator string
}

// NewTable writes to stdout.
func NewTable() *TableWriter {
	return NewTableTo(os.Stdout)
}

// NewTableTo writes to w.
func NewTableTo(w io.Writer) *TableWriter {
	return &TableWriter{
		writer:    tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		separator: "-",
	}
}

// WithHeaders sets the column headers.
func (t *TableWriter) WithHeaders(headers ...string) *TableWriter {
	t.headers = headers
	return t
}

// AddRow appends one row.
func (t *TableWriter) AddRow(values ...string) *TableWriter {
	t.rows = append(t.rows, values)
	return t
}

// Render writes the table and flushes.
func (t *TableWriter) Render() error {
	if len(t.headers) > 0 {
		fmt.Fprintln(t.writer, strings.Join(t.headers, "\t"))
		separators := make([]string, len(t.headers))
		for i, h := range t.headers {
			separators[i] = strings.Repeat(t.separator, utf8.RuneCountInString(h))
		}
		fmt.Fprintln(t.writer, strings.Join(separators, "\t"))
	}

	for _, row := range t.rows {
		fmt.Fprintln(t.writer, strings.Join(row, "\t"))
	}

	return t.writer.Flush()
}

// Truncate shortens s to n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	if n <= 3 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
