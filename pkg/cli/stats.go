package cli

import (
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/registry"
	"costdb/pkg/ui"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newStatsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Compute statistics for every table of the catalog and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pc, err := opts.loadStatistics(cmd)
			if err != nil {
				return err
			}
			return printStatistics(cmd, pc.Statistics())
		},
	}
}

// loadStatistics reads the catalog manifest and analyzes every table.
func (o *globalOptions) loadStatistics(cmd *cobra.Command) (*registry.PlannerContext, error) {
	if o.catalog == "" {
		return nil, fmt.Errorf("--catalog is required")
	}

	var pc *registry.PlannerContext
	load := func() (err error) {
		pc, err = registry.Load(cmd.Context(), o.fs, o.catalog, o.conf)
		return err
	}
	var err error
	if o.progress {
		err = ui.RunWithSpinner(cmd.ErrOrStderr(), "computing statistics", load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	return pc, nil
}

func printStatistics(cmd *cobra.Command, reg *statistics.Registry) error {
	w := cmd.OutOrStdout()

	printTitle(w, "Tables")
	tables := newTable(w, table.Row{"Table", "Tuples", "Pages", "Scan cost"}, "Tuples", "Pages", "Scan cost")
	columns := newTable(w, table.Row{"Table", "Column", "Type", "Min", "Max", "Buckets"}, "Min", "Max", "Buckets")

	for _, name := range reg.TableNames() {
		ts, err := reg.TableStats(name)
		if err != nil {
			return err
		}
		tables.AppendRow(table.Row{name, ts.TotalTuples(), ts.NumPages(), formatCost(ts.EstimateScanCost())})

		td := ts.TupleDesc()
		for i := range td.NumFields() {
			row, err := columnRow(ts, i)
			if err != nil {
				return err
			}
			columns.AppendRow(row)
		}
	}
	tables.Render()

	printTitle(w, "Columns")
	columns.Render()

	if n := reg.NumJointHistograms(); n > 0 {
		printNote(w, fmt.Sprintf("%d joint histograms built", n))
	}
	return nil
}

func columnRow(ts *statistics.TableStats, field int) (table.Row, error) {
	td := ts.TupleDesc()
	name, err := td.GetFieldName(field)
	if err != nil {
		return nil, err
	}
	h, err := ts.Histogram(field)
	if err != nil {
		return nil, err
	}

	row := table.Row{ts.TableName(), name, h.Kind().String(), "-", "-", "-"}
	if ih, ok := h.(*statistics.IntHistogram); ok {
		lo, hi := ih.Bounds()
		row[3] = strconv.FormatInt(lo, 10)
		row[4] = strconv.FormatInt(hi, 10)
		row[5] = ih.NumBuckets()
	}
	return row, nil
}
