package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaxwellKnight/csvg/pkg/cache"
	"github.com/MaxwellKnight/csvg/pkg/config"
)

const testSchema = `
CREATE TABLE customers (
	id INT PRIMARY KEY,
	name TEXT
);

CREATE TABLE orders (
	id INT PRIMARY KEY,
	customer_id INT REFERENCES customers (id)
);

CREATE TABLE items (
	id INT PRIMARY KEY,
	order_id INT REFERENCES orders (id),
	sku TEXT
);
`

// chproject switches into a fresh project directory populated with a
// schema and CSV data for it.
func chproject(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })

	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))

	write := func(nam, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, nam), []byte(content), 0o644))
	}
	write("schema.sql", testSchema)
	write("customers.csv", "id,name\n1,ann\n2,bob\n")
	write("orders.csv", "id,customer_id\n10,1\n11,2\n")
	write("items.csv", "id,order_id,sku\n100,10,apple\n")
	return dir
}

func TestMainUsageErrors(t *testing.T) {
	assert.Equal(t, 2, Main([]string{"frobnicate"}))
	assert.Equal(t, 2, Main([]string{"graph", "shortest-path", "customers"}))
	assert.Equal(t, 2, Main([]string{"csv", "join", "a", "b"}))
	assert.Equal(t, 2, Main([]string{"init", "--no-such-flag"}))
}

func TestInit(t *testing.T) {
	dir := chproject(t)

	require.Equal(t, 0, Main([]string{"init"}))
	state := filepath.Join(dir, config.DirName)
	assert.True(t, config.Exists(state))
	assert.True(t, cache.Exists(state))

	// Without --force a second init leaves the config alone.
	cfg, err := config.Read(state)
	require.NoError(t, err)
	cfg.OutputFile = "merged.csv"
	require.NoError(t, config.Write(state, cfg))

	require.Equal(t, 0, Main([]string{"init"}))
	cfg, err = config.Read(state)
	require.NoError(t, err)
	assert.Equal(t, "merged.csv", cfg.OutputFile)

	require.Equal(t, 0, Main([]string{"init", "--force"}))
	cfg, err = config.Read(state)
	require.NoError(t, err)
	assert.Equal(t, "output.csv", cfg.OutputFile)
}

func TestGraphCommands(t *testing.T) {
	dir := chproject(t)

	assert.Equal(t, 0, Main([]string{"graph", "create"}))
	assert.Equal(t, 0, Main([]string{"graph", "create", "schema.sql"}))
	assert.Equal(t, 0, Main([]string{"graph", "shortest-path", "customers", "items"}))
	assert.Equal(t, 0, Main([]string{"graph", "sp", "customers", "customers"}))
	assert.Equal(t, 0, Main([]string{"graph", "mst"}))
	assert.Equal(t, 0, Main([]string{"graph", "display"}))
	assert.Equal(t, 0, Main([]string{"graph", "display", "-f", "json"}))
	assert.Equal(t, 0, Main([]string{"graph", "display", "-f", "dot"}))
	assert.Equal(t, 2, Main([]string{"graph", "display", "-f", "nope"}))

	assert.Equal(t, 1, Main([]string{"graph", "shortest-path", "customers", "no_such"}))

	dot := filepath.Join(dir, config.DirName, "generated-files", "graph.dot")
	_, err := os.Stat(dot)
	assert.NoError(t, err)
}

func TestGraphCacheRepair(t *testing.T) {
	dir := chproject(t)
	require.Equal(t, 0, Main([]string{"graph", "create"}))

	// A corrupt cache is repaired on the next use, not reported.
	cachePath := cache.Path(filepath.Join(dir, config.DirName))
	require.NoError(t, os.WriteFile(cachePath, []byte("{nope"), 0o644))
	assert.Equal(t, 0, Main([]string{"graph", "mst"}))

	// So is a stale one after a schema edit.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.sql"),
		[]byte(testSchema+"\n-- edited\n"), 0o644))
	assert.Equal(t, 0, Main([]string{"graph", "shortest-path", "customers", "orders"}))
	assert.Equal(t, 0, Main([]string{"graph", "-r", "mst"}))
}

func TestGraphJoin(t *testing.T) {
	dir := chproject(t)

	require.Equal(t, 0, Main([]string{"graph", "join", "customers", "items"}))

	buf, err := os.ReadFile(filepath.Join(dir, "output.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"customers.id,customers.name,orders.id,orders.customer_id,"+
			"items.id,items.order_id,items.sku\n"+
			"1,ann,10,1,100,10,apple\n",
		string(buf))

	assert.Equal(t, 1, Main([]string{"graph", "join", "customers", "no_such"}))
}

func TestCSVCommands(t *testing.T) {
	chproject(t)

	assert.Equal(t, 0, Main([]string{"csv", "head", "customers"}))
	assert.Equal(t, 0, Main([]string{"csv", "tail", "customers", "-n", "1"}))
	assert.Equal(t, 0, Main([]string{"csv", "select", "customers", "name"}))
	assert.Equal(t, 0, Main([]string{"csv", "drop", "customers", "name"}))
	assert.Equal(t, 0, Main([]string{"csv", "concat", "customers", "customers"}))
	assert.Equal(t, 0, Main([]string{"csv", "join", "customers", "orders", "id",
		"customer_id"}))
	assert.Equal(t, 0, Main([]string{"csv", "join", "-t", "left", "customers", "orders",
		"id", "customer_id"}))
	assert.Equal(t, 2, Main([]string{"csv", "join", "-t", "sideways", "customers",
		"orders", "id", "customer_id"}))

	assert.Equal(t, 2, Main([]string{"csv", "head", "-n", "-1", "customers"}))
	assert.Equal(t, 2, Main([]string{"csv", "tail", "-n", "-1", "customers"}))

	assert.Equal(t, 1, Main([]string{"csv", "head", "no_such"}))
	assert.Equal(t, 1, Main([]string{"csv", "select", "customers", "no_such"}))
}

func TestPathCommand(t *testing.T) {
	dir := chproject(t)
	assert.Equal(t, 0, Main([]string{"path"}))
	assert.DirExists(t, filepath.Join(dir, config.DirName))
}
