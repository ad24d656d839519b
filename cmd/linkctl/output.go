package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...interface{}) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.FgHiCyan.Sprint(c)
	}
	return row
}

func success(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", text.FgGreen.Sprint("✓"), fmt.Sprintf(format, args...))
}

func yesNo(b bool) string {
	if b {
		return text.FgGreen.Sprint("yes")
	}
	return text.FgYellow.Sprint("no")
}

func formatExpiry(at time.Time, now time.Time) string {
	if at.IsZero() {
		return "-"
	}
	stamp := at.UTC().Format(time.RFC3339)
	if !at.After(now) {
		return stamp + " " + text.FgRed.Sprint("(expired)")
	}
	return fmt.Sprintf("%s (in %s)", stamp, at.Sub(now).Round(time.Second))
}
