package perf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WriteReport renders the snapshot as a table.
func WriteReport(w io.Writer, snap Snapshot) error {
	rows := make([][]string, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		rows = append(rows, []string{
			r.Name,
			strconv.FormatInt(r.Count, 10),
			round(r.Total),
			round(r.Avg),
			round(r.P95),
			round(r.Max),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Function", "Count", "Total", "Avg", "P95", "Max").
		Rows(rows...)

	_, err := fmt.Fprintf(w, "%s\nElapsed: %s\n", t.String(), round(snap.Elapsed))
	return err
}

func round(d time.Duration) string {
	return d.Round(time.Microsecond).String()
}
