package backend

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func TestSQLiteSink_Extract(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stage.db")
	runID := uuid.New()
	sink := NewSQLiteSink(dbPath, Target{Schema: ordersSchema(), RunID: runID},
		SQLiteOptions{Table: "orders", Delimiter: ','}, logging.NewNullLogger())

	data := writeData(t, "1,first,10.5\n2,\"quoted, note\",7\n")
	require.NoError(t, sink.Extract(context.Background(), data))
	require.NoError(t, sink.Extract(context.Background(), data), "second load appends to the existing table")

	database, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow(`SELECT count(*) FROM "orders"`).Scan(&count))
	assert.Equal(t, 4, count)

	var id, amount, run string
	require.NoError(t, database.QueryRow(`SELECT "order_id", "amount", "ldmcsv_run_id" FROM "orders" LIMIT 1`).Scan(&id, &amount, &run))
	assert.Equal(t, "1", id)
	assert.Equal(t, "10.5", amount)
	assert.Equal(t, runID.String(), run)

	var columns []string
	rows, err := database.Query(`SELECT name FROM pragma_table_info('orders')`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"order_id", "amount", "ldmcsv_run_id", "loaded_at"}, columns, "IGNORE columns are not staged")
}

func TestSQLiteSink_ModelMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stage.db")
	sink := NewSQLiteSink(dbPath, Target{Schema: ordersSchema(), RunID: uuid.New()},
		SQLiteOptions{Table: "orders", Delimiter: ','}, logging.NewNullLogger())

	err := sink.Extract(context.Background(), writeData(t, "1,a,2\n2,b\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ldmcsv.ErrModel)

	database, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.QueryRow(`SELECT count(*) FROM "orders"`).Scan(&count))
	assert.Zero(t, count, "a failed load leaves no rows behind")
}

func TestSQLiteSink_ExistingTableWithOtherColumns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stage.db")
	database, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = database.Exec(`CREATE TABLE "orders" ("something_else" TEXT, "ldmcsv_run_id" TEXT)`)
	require.NoError(t, err)
	require.NoError(t, database.Close())

	sink := NewSQLiteSink(dbPath, Target{Schema: ordersSchema(), RunID: uuid.New()},
		SQLiteOptions{Table: "orders", Delimiter: ','}, logging.NewNullLogger())

	err = sink.Extract(context.Background(), writeData(t, "1,a,2\n"))
	assert.ErrorIs(t, err, ldmcsv.ErrModel)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"order_id 1"`, quoteIdent("order_id 1"))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`))
}
