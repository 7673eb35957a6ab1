//go:build integration

package backend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/db"
	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/internal/testinfra"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func TestPostgresSink_Integration(t *testing.T) {
	ctx := context.Background()
	ctr, err := testinfra.StartPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { ctr.Terminate(ctx) }) //nolint:errcheck

	logger := logging.NewNullLogger()
	connector := db.NewStandardConnector(ctr.Config, logger)
	runID := uuid.New()
	sink := NewPostgresSink(connector, Target{Schema: ordersSchema(), RunID: runID},
		PostgresOptions{Table: "orders", Delimiter: ','}, logger)

	require.NoError(t, sink.Extract(ctx, writeData(t, "1,a,10\n2,\"b, c\",20\n")))

	pool, err := connector.Connect(ctx)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE ldmcsv_run_id = $1`, runID.String()).Scan(&count))
	assert.Equal(t, 2, count)

	var amount string
	require.NoError(t, pool.QueryRow(ctx, `SELECT amount FROM orders WHERE order_id = '2'`).Scan(&amount))
	assert.Equal(t, "20", amount)

	err = sink.Extract(ctx, writeData(t, "3,x\n"))
	assert.ErrorIs(t, err, ldmcsv.ErrModel)

	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&count))
	assert.Equal(t, 2, count, "a rejected COPY adds nothing")
}
