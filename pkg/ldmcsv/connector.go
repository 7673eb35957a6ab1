package ldmcsv

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector establishes connection pools to the PostgreSQL backend.
// Implementations handle the authentication methods (standard credentials,
// cloud IAM tokens, Cloud SQL dialing).
type Connector interface {
	// Connect establishes a connection pool to the database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
