package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"nekobudget/internal/core"
	"nekobudget/internal/services"
)

type harness struct {
	t      *testing.T
	dir    string
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("EXPORT_DIR", dir)
	t.Setenv("HISTORY_LIMIT", "")
	t.Setenv("CHECK_FUNDS", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.env"), nil, 0644))
	return &harness{t: t, dir: dir, dbPath: filepath.Join(dir, "nekobudget.db")}
}

// run executes one command line against the harness database with the
// clock fixed at 2024-03-20.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	root, a := newRoot()
	a.options = []services.Option{services.WithClock(func() time.Time {
		return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	})}
	defer a.close()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--db", h.dbPath, "--env-file", filepath.Join(h.dir, "test.env")}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)
	return out
}

func TestBillLifecycle(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("bill", "add", "--name", "Rent", "--amount", "1200.00", "--due-day", "1")
	assert.Contains(t, out, "Added bill 1: Rent 1200.00")
	h.mustRun("bill", "add", "--name", "Phone", "--amount", "45,5", "--due-day", "15", "--category", "Utilities")

	out = h.mustRun("bill", "list")
	assert.Contains(t, out, "Total active")
	assert.Contains(t, out, "1245.50")

	h.mustRun("bill", "pay", "1", "--month", "2024-03")

	out = h.mustRun("overview", "--month", "2024-03")
	assert.Contains(t, out, "paid 2024-03-20")
	assert.Contains(t, out, "OVERDUE", "phone was due on the 15th")

	h.mustRun("bill", "deactivate", "2")
	out = h.mustRun("bill", "list")
	assert.NotContains(t, out, "Phone")
	out = h.mustRun("bill", "list", "--all")
	assert.Contains(t, out, "Phone")

	h.mustRun("bill", "update", "1", "--amount", "1250")
	out = h.mustRun("summary", "--month", "2024-03")
	assert.Contains(t, out, "1250.00")
}

func TestBillAdd_Invalid(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("bill", "add", "--name", "Rent", "--amount=-5")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = h.run("bill", "add", "--name", "Rent", "--amount", "10", "--due-day", "40")
	assert.ErrorIs(t, err, core.ErrInvalidDueDay)

	_, err = h.run("bill", "pay", "99", "--month", "2024-03")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = h.run("bill", "pay", "abc")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	h := newHarness(t)

	h.mustRun("purchase", "add", "--name", "Book", "--amount", "12.99", "--date", "2024-03-02")

	_, err := h.run("purchase", "delete", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")

	out := h.mustRun("purchase", "list", "--month", "2024-03")
	assert.Contains(t, out, "Book")

	h.mustRun("purchase", "delete", "1", "--yes")
	out = h.mustRun("purchase", "list", "--month", "2024-03")
	assert.NotContains(t, out, "Book")
}

func TestSavingsCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("savings", "create", "--name", "Trip", "--goal", "500")
	h.mustRun("savings", "deposit", "1", "--amount", "150")
	out := h.mustRun("savings", "withdraw", "1", "--amount", "50")
	assert.Contains(t, out, "Trip: balance 100.00")

	out = h.mustRun("savings", "list")
	assert.Contains(t, out, "20%")

	_, err := h.run("savings", "withdraw", "1", "--amount", "500")
	assert.ErrorIs(t, err, core.ErrInsufficientFunds)

	out = h.mustRun("savings", "history", "1")
	assert.Contains(t, out, "withdraw")
	assert.Contains(t, out, "deposit")

	h.mustRun("savings", "delete", "1", "--yes")
	_, err = h.run("savings", "history", "1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBillAccountOverride(t *testing.T) {
	h := newHarness(t)

	h.mustRun("billaccount", "deposit", "--amount", "300")
	out := h.mustRun("verify")
	assert.Contains(t, out, "All balances match")

	_, err := h.run("billaccount", "set-balance", "--amount", "450")
	require.Error(t, err)

	h.mustRun("billaccount", "set-balance", "--amount", "450", "--yes")
	out = h.mustRun("billaccount", "show")
	assert.Contains(t, out, "450.00")

	out = h.mustRun("verify")
	assert.Contains(t, out, "Bill account")
	assert.Contains(t, out, "150.00")

	out = h.mustRun("billaccount", "history", "--limit", "5")
	assert.Contains(t, out, "300.00")
}

func TestPageCommands(t *testing.T) {
	h := newHarness(t)

	h.mustRun("page", "notes", "--month", "2024-06", "Birthday", "month")
	out := h.mustRun("page", "show", "--month", "2024-06")
	assert.Contains(t, out, "Birthday month")

	out = h.mustRun("page", "list")
	assert.Contains(t, out, "2024-06")

	h.mustRun("page", "delete", "--month", "2024-06", "--yes")
	out = h.mustRun("page", "list")
	assert.NotContains(t, out, "2024-06")
}

func TestExportCommand(t *testing.T) {
	h := newHarness(t)

	h.mustRun("paycheck", "add", "--amount", "2000", "--date", "2024-03-01", "--source", "Acme")
	h.mustRun("purchase", "add", "--name", "Groceries", "--amount", "82.10", "--category", "Food")

	out := h.mustRun("export", "--month", "2024-03")
	path := filepath.Join(h.dir, "nekobudget_2024-03.xlsx")
	assert.Contains(t, out, path)

	_, err := os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Purchases")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Groceries", rows[1][1])
	assert.Equal(t, "2024-03-20", rows[1][0], "purchase date defaults to today")
}

func TestMissingEnvFileIsAnError(t *testing.T) {
	h := newHarness(t)
	root, a := newRoot()
	defer a.close()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--db", h.dbPath, "--env-file", filepath.Join(h.dir, "absent.env"), "bill", "list"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")

	_, statErr := os.Stat(h.dbPath)
	assert.True(t, os.IsNotExist(statErr), "store is not opened")
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")

	err := writeFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("PK"))
		return errors.New("disk full")
	})
	require.EqualError(t, err, "disk full")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("ok"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}
