package cli

import (
	"costdb/pkg/catalog"
	"costdb/pkg/optimizer/statistics"
	"costdb/pkg/plan"
	"costdb/pkg/types"
	"costdb/pkg/utils/functools"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type orderOptions struct {
	*globalOptions

	tables      []string
	joins       []string
	subplans    []string
	selectivity map[string]string
	filters     []string
	explain     bool
}

func newOrderCommand(global *globalOptions) *cobra.Command {
	opts := &orderOptions{globalOptions: global}

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order join conditions by estimated cost",
		Example: `  costdb order --catalog db/catalog.toml \
    --table o=orders --table c=customers --table p=products \
    --join "o.customer = c.id" --join "o.product = p.id" \
    --where "c.region = 'EU'" --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.tables, "table", nil, "alias=table to scan; joined tables without one are scanned under their own name")
	flags.StringArrayVar(&opts.joins, "join", nil, `join condition "alias.field OP alias.field" (repeatable)`)
	flags.StringArrayVar(&opts.subplans, "subplan", nil, `join of "alias.field OP" against a materialised subquery (repeatable)`)
	flags.StringToStringVar(&opts.selectivity, "filter", nil, "alias=selectivity of filters already applied to a table")
	flags.StringArrayVar(&opts.filters, "where", nil, `single-table predicate "alias.field OP constant" estimated from the histograms (repeatable)`)
	flags.BoolVar(&opts.explain, "explain", false, "print the annotated plan tree")
	return cmd
}

func (o *orderOptions) run(cmd *cobra.Command) error {
	pc, err := o.loadStatistics(cmd)
	if err != nil {
		return err
	}
	reg := pc.Statistics()

	lp, err := o.logicalPlan(pc.Catalog())
	if err != nil {
		return err
	}
	filterSel, err := o.filterSelectivity(lp, reg)
	if err != nil {
		return err
	}

	jo := pc.JoinOptimizer(lp)
	res, err := jo.OrderJoinsTraced(reg, filterSel)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	printTitle(w, "Join order")
	if !res.Optimized {
		printNote(w, "join graph is not connected; conditions run in input order")
	}

	t := newTable(w, table.Row{"#", "Join", "Method", "Cost", "Rows"}, "#", "Cost", "Rows")
	for i, j := range res.Joins {
		row := table.Row{i + 1, j.String(), j.Method.String(), "-", "-"}
		if i < len(res.Steps) {
			row[3] = formatCost(res.Steps[i].Cost)
			row[4] = res.Steps[i].Cardinality
		}
		t.AppendRow(row)
	}
	if res.Optimized && len(res.Steps) > 0 {
		t.AppendFooter(table.Row{"", "total", "", formatCost(res.Cost), res.Cardinality})
	}
	t.Render()

	if !o.explain && !o.conf.Optimizer.Explain {
		return nil
	}
	tree, err := jo.BuildPlanTree(res, reg, filterSel)
	if err != nil {
		return err
	}
	printTitle(w, "Plan")
	fmt.Fprint(w, plan.NewPlanVisualizer().Visualize(tree))
	return nil
}

// logicalPlan declares the --table scans, parses the joins and adds a scan
// for every joined alias that names a catalog table and was not declared.
func (o *orderOptions) logicalPlan(cat *catalog.Catalog) (*plan.LogicalPlan, error) {
	lp := plan.NewLogicalPlan()
	declared := make(map[string]bool)

	addScan := func(alias, tableName string) error {
		id, err := cat.GetTableID(tableName)
		if err != nil {
			return err
		}
		if err := lp.AddScan(id, tableName, alias); err != nil {
			return err
		}
		declared[alias] = true
		return nil
	}

	for _, spec := range o.tables {
		alias, tableName, ok := strings.Cut(spec, "=")
		if !ok {
			alias, tableName = spec, spec
		}
		if err := addScan(strings.TrimSpace(alias), strings.TrimSpace(tableName)); err != nil {
			return nil, err
		}
	}

	joins, err := functools.MapWithError(o.joins, plan.ParseJoin)
	if err != nil {
		return nil, err
	}
	subplans, err := functools.MapWithError(o.subplans, parseSubplanJoin)
	if err != nil {
		return nil, err
	}
	joins = append(joins, subplans...)

	for _, j := range joins {
		aliases := []string{j.LeftAlias}
		if !j.Subplan {
			aliases = append(aliases, j.RightAlias)
		}
		for _, alias := range aliases {
			if declared[alias] {
				continue
			}
			// unknown aliases are left for the optimizer to reject
			if _, err := cat.GetTableID(alias); err == nil {
				if err := addScan(alias, alias); err != nil {
					return nil, err
				}
			}
		}
		lp.AddJoin(j)
	}
	return lp, nil
}

// parseSubplanJoin parses "alias.field OP".
func parseSubplanJoin(s string) (plan.LogicalJoinNode, error) {
	f, err := plan.ParseFilter(s + " subplan")
	if err != nil {
		return plan.LogicalJoinNode{}, fmt.Errorf("invalid subplan join %q, expected alias.field OP", s)
	}
	return plan.NewSubplanJoinNode(f.Alias, f.Field, f.Op), nil
}

// filterSelectivity combines the --filter selectivities and the --where
// predicates per alias, assuming independent predicates.
func (o *orderOptions) filterSelectivity(lp *plan.LogicalPlan, reg *statistics.Registry) (map[string]float64, error) {
	sel := make(map[string]float64)
	scale := func(alias string, s float64) {
		if cur, ok := sel[alias]; ok {
			s *= cur
		}
		sel[alias] = s
	}

	for alias, text := range o.selectivity {
		s, err := strconv.ParseFloat(text, 64)
		if err != nil || s < 0 || s > 1 {
			return nil, fmt.Errorf("invalid selectivity %q for %s, expected a number in [0, 1]", text, alias)
		}
		scale(alias, s)
	}

	for _, text := range o.filters {
		f, err := plan.ParseFilter(text)
		if err != nil {
			return nil, err
		}
		s, err := estimateFilter(lp, reg, f)
		if err != nil {
			return nil, err
		}
		scale(f.Alias, s)
	}
	return sel, nil
}

func estimateFilter(lp *plan.LogicalPlan, reg *statistics.Registry, f plan.Filter) (float64, error) {
	tableName, err := lp.TableName(f.Alias)
	if err != nil {
		return 0, err
	}
	ts, err := reg.TableStats(tableName)
	if err != nil {
		return 0, err
	}

	td := ts.TupleDesc()
	field, err := td.FindFieldIndex(f.Field)
	if err != nil {
		return 0, err
	}
	fieldType, err := td.TypeAtIndex(field)
	if err != nil {
		return 0, err
	}
	constant, err := types.ParseField(fieldType, f.Constant)
	if err != nil {
		return 0, err
	}
	return ts.EstimateSelectivity(field, f.Op, constant)
}
