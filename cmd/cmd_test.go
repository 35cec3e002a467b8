package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/twfolio"
	"github.com/etnz/twfolio/names"
	"github.com/etnz/twfolio/store"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup points the commands to a fresh configuration in a temp directory and
// returns the ledger path.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ledger := filepath.Join(dir, "transactions.jsonl")
	cfg := `
[ledger]
backend = "jsonl"
path = "` + filepath.ToSlash(ledger) + `"

[quotes]
disable = true

[logging]
level = "error"
`
	path := filepath.Join(dir, "twfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	old := *configPath
	*configPath = path
	t.Cleanup(func() { *configPath = old })
	return ledger
}

func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

func TestBuySellRemove(t *testing.T) {
	ledger := setup(t)
	ctx := context.Background()

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &buyCmd{}, "-d", "2025-01-02", "-c", "2330", "-n", "台積電", "-q", "2000", "-p", "600"))
	assert.Equal(t, subcommands.ExitSuccess, execute(t, &sellCmd{}, "-d", "2025-01-03", "-c", "2330", "-n", "台積電", "-q", "1000", "-p", "620"))

	txs, err := store.NewFile(ledger).List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2330.TW", txs[0].Code)
	assert.Equal(t, "1710", txs[0].Fee.Decimal().String())
	assert.True(t, txs[0].Tax.IsZero())
	assert.Equal(t, "1860", txs[1].Tax.Decimal().String())

	assert.Equal(t, subcommands.ExitSuccess, execute(t, &rmCmd{}, "-i", "0"))
	txs, err = store.NewFile(ledger).List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Sell", txs[0].Side.String())
}

func TestBuy_Invalid(t *testing.T) {
	ledger := setup(t)

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &buyCmd{}, "-c", "2330", "-q", "1500", "-p", "600"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &buyCmd{}, "-c", "2330", "-m", "NYSE", "-q", "1000", "-p", "600"))
	assert.NoFileExists(t, ledger)
}

func TestBuy_DefaultName(t *testing.T) {
	ledger := setup(t)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &buyCmd{}, "-c", "8069", "-m", "TWO", "-q", "1000", "-p", "100"))
	txs, err := store.NewFile(ledger).List(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "8069.TWO", txs[0].Code)
	assert.Equal(t, "未知股票", txs[0].Name)
}

func TestRemove_OutOfRange(t *testing.T) {
	setup(t)
	assert.Equal(t, subcommands.ExitFailure, execute(t, &rmCmd{}, "-i", "3"))
	assert.Equal(t, subcommands.ExitUsageError, execute(t, &rmCmd{}))
}

func TestExportImport(t *testing.T) {
	ledger := setup(t)
	require.Equal(t, subcommands.ExitSuccess, execute(t, &buyCmd{}, "-d", "2025-01-02", "-c", "2330", "-q", "1000", "-p", "600"))

	out := filepath.Join(t.TempDir(), "out.csv")
	require.Equal(t, subcommands.ExitSuccess, execute(t, &exportCmd{}, "-o", out))
	require.FileExists(t, out)

	require.Equal(t, subcommands.ExitSuccess, execute(t, &importCmd{}, out))
	txs, err := store.NewFile(ledger).List(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, txs[0].Code, txs[1].Code)
	assert.Equal(t, txs[0].Date, txs[1].Date)
	assert.True(t, txs[0].Quantity.Equal(txs[1].Quantity))
	assert.True(t, txs[0].Price.Equal(txs[1].Price))
	assert.True(t, txs[0].Fee.Equal(txs[1].Fee))

	assert.Equal(t, subcommands.ExitUsageError, execute(t, &importCmd{}))
}

func TestEntryName(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	dir := twfolio.NewStockDirectory(names.Map{{Code: "2330", Market: twfolio.TWSE}: "台積電"}, log)
	a := &app{log: log, service: twfolio.NewService(store.NewFile(filepath.Join(t.TempDir(), "tx.jsonl")), nil, dir, log)}
	ctx := context.Background()

	assert.Equal(t, "TSMC", a.entryName(ctx, " TSMC ", "2330", "TWSE"))
	assert.Equal(t, "台積電", a.entryName(ctx, "", "2330", "TWSE"))
	assert.Empty(t, buf.String())

	assert.Equal(t, "", a.entryName(ctx, "", "9999", "TWSE"))
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"code":"9999"`)
}
