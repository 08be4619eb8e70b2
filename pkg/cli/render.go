package cli

import (
	"costdb/pkg/metrics"
	"costdb/pkg/ui"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/client_golang/prometheus"
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, ui.TitleStyle.Render(title))
}

func printNote(w io.Writer, note string) {
	fmt.Fprintln(w, ui.NoteStyle.Render(note))
}

// newTable returns a table writer mirroring to w. Columns named in numeric
// are right-aligned.
func newTable(w io.Writer, header table.Row, numeric ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, name := range numeric {
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

func formatCost(c float64) string {
	return fmt.Sprintf("%.2f", c)
}

func printMetrics(w io.Writer, g prometheus.Gatherer) error {
	samples, err := metrics.Summarize(g)
	if err != nil {
		return err
	}
	printTitle(w, "Metrics")
	t := newTable(w, table.Row{"Metric", "Labels", "Value"}, "Value")
	for _, s := range samples {
		t.AppendRow(table.Row{s.Name, s.Labels, strconv.FormatFloat(s.Value, 'g', 6, 64)})
	}
	t.Render()
	return nil
}
