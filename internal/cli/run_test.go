package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zemouh/finagent/internal/services"
	"github.com/zemouh/finagent/internal/storage"
)

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer, *storage.RecordStore) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	records := storage.NewRecordStore(db)
	users := storage.NewUserStore(db)
	budgetSvc := services.NewBudgetService(records, nil)

	var out bytes.Buffer
	app := NewApp(strings.NewReader(input), &out, budgetSvc, users, false)
	return app, &out, records
}

func TestRunEvaluatesAndStores(t *testing.T) {
	app, out, records := newTestApp(t, "\n5000\n3000\n1000\nq\n")

	require.NoError(t, app.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "Personal Budget Assistant")
	assert.Contains(t, output, "-------Result-------")
	assert.Contains(t, output, "Your saving goal is achievable.")
	assert.Contains(t, output, "Recommended saving ratio: 20.00%")
	assert.Contains(t, output, "Worth thinking about:")
	assert.Contains(t, output, "Bye.")

	stored, err := records.ListByUser(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "5000", stored[0].Income.String())
}

func TestRunQuitAtFirstPrompt(t *testing.T) {
	app, out, records := newTestApp(t, "q\n")

	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, out.String(), "Bye.")

	stored, err := records.ListByUser(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRunQuitMidEntry(t *testing.T) {
	app, _, records := newTestApp(t, "\n5000\nq\n")

	require.NoError(t, app.Run(context.Background()))

	stored, err := records.ListByUser(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRunEndOfInputIsCleanExit(t *testing.T) {
	app, _, _ := newTestApp(t, "")
	require.NoError(t, app.Run(context.Background()))
}

func TestRunReusesLocalUser(t *testing.T) {
	app, _, records := newTestApp(t, "\n100\n50\n10\n\n200\n50\n10\nq\n")

	require.NoError(t, app.Run(context.Background()))

	stored, err := records.ListByUser(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
