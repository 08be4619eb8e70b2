package cli

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const testManifest = `
[[table]]
name = "customers"
file = "customers.csv"
header = true
tuples-per-page = 10

  [[table.column]]
  name = "id"
  type = "int"
  primary-key = true

  [[table.column]]
  name = "region"
  type = "string"

[[table]]
name = "orders"
file = "orders.csv"
header = true
tuples-per-page = 10

  [[table.column]]
  name = "id"
  type = "int"
  primary-key = true

  [[table.column]]
  name = "customer"
  type = "int"

[[table]]
name = "lonely"

  [[table.column]]
  name = "x"
  type = "int"
`

// testFs holds 20 customers (half "EU") and 200 orders.
func testFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/db/catalog.toml", []byte(testManifest), 0o644))

	var customers strings.Builder
	customers.WriteString("id,region\n")
	for i := range 20 {
		region := "EU"
		if i%2 == 1 {
			region = "US"
		}
		fmt.Fprintf(&customers, "%d,%s\n", i, region)
	}
	require.NoError(t, afero.WriteFile(fs, "/db/customers.csv", []byte(customers.String()), 0o644))

	var orders strings.Builder
	orders.WriteString("id,customer\n")
	for i := range 200 {
		fmt.Fprintf(&orders, "%d,%d\n", i, i%20)
	}
	require.NoError(t, afero.WriteFile(fs, "/db/orders.csv", []byte(orders.String()), 0o644))
	return fs
}

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestStatsCommand(t *testing.T) {
	out, err := execute(t, testFs(t), "stats", "--catalog", "/db/catalog.toml")
	require.NoError(t, err)

	require.Contains(t, out, "Tables")
	require.Contains(t, out, "customers")
	require.Contains(t, out, "orders")
	require.Contains(t, out, "lonely")
	// orders: 200 tuples over 20 pages, 1000 per page
	require.Contains(t, out, "20000.00")
	require.Contains(t, out, "STRING_TYPE")
	require.Contains(t, out, "joint histograms built")
}

func TestStatsCommandRequiresCatalog(t *testing.T) {
	_, err := execute(t, testFs(t), "stats")
	require.ErrorContains(t, err, "--catalog is required")
}

func TestOrderCommand(t *testing.T) {
	out, err := execute(t, testFs(t), "order",
		"--catalog", "/db/catalog.toml",
		"--table", "o=orders",
		"--join", "o.customer = customers.id",
		"--where", "customers.id < 10",
		"--explain",
	)
	require.NoError(t, err)

	require.Contains(t, out, "Join order")
	require.Contains(t, out, "o.customer = customers.id")
	require.Contains(t, out, "hash")
	require.Contains(t, out, "Plan")
	require.Contains(t, out, "Scan(orders AS o")
	require.Contains(t, out, "Scan(customers")
}

func TestOrderCommandUnconnected(t *testing.T) {
	out, err := execute(t, testFs(t), "order",
		"--catalog", "/db/catalog.toml",
		"--join", "orders.customer = customers.id",
		"--join", "lonely.x = lonely.x",
	)
	require.NoError(t, err)
	require.Contains(t, out, "not connected")
}

func TestOrderCommandErrors(t *testing.T) {
	fs := testFs(t)

	_, err := execute(t, fs, "order", "--catalog", "/db/catalog.toml", "--join", "orders.customer = nowhere.id")
	require.ErrorContains(t, err, "nowhere")

	_, err = execute(t, fs, "order", "--catalog", "/db/catalog.toml", "--join", "orders.customer")
	require.ErrorContains(t, err, "invalid join condition")

	_, err = execute(t, fs, "order", "--catalog", "/db/catalog.toml",
		"--join", "orders.customer = customers.id", "--filter", "orders=2")
	require.ErrorContains(t, err, "invalid selectivity")

	_, err = execute(t, fs, "order", "--catalog", "/db/catalog.toml",
		"--join", "orders.customer = customers.id", "--where", "customers.id < abc")
	require.Error(t, err)

	_, err = execute(t, fs, "order", "--catalog", "/db/catalog.toml", "--table", "o=missing")
	require.Error(t, err)
}

func TestParseSubplanJoin(t *testing.T) {
	j, err := parseSubplanJoin("o.customer >=")
	require.NoError(t, err)
	require.True(t, j.Subplan)
	require.Equal(t, "o.customer >= subplan", j.String())

	_, err = parseSubplanJoin("o >=")
	require.Error(t, err)
}

func TestStatsCommandWithProgress(t *testing.T) {
	out, err := execute(t, testFs(t), "stats", "--catalog", "/db/catalog.toml", "--progress")
	require.NoError(t, err)
	require.Contains(t, out, "computing statistics")
	require.Contains(t, out, "orders")
}

func TestOrderCommandMetrics(t *testing.T) {
	out, err := execute(t, testFs(t), "order",
		"--catalog", "/db/catalog.toml",
		"--join", "orders.customer = customers.id",
		"--metrics",
	)
	require.NoError(t, err)
	require.Contains(t, out, "Metrics")
	require.Contains(t, out, "costdb_statistics_build_total")
	require.Contains(t, out, "costdb_optimizer_join_order_total")
	require.Contains(t, out, `result="optimized"`)
}
