package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestPostgreSQLErrorClassifier(t *testing.T) {
	c := NewPostgreSQLErrorClassifier()

	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unable to connect", &pgconn.PgError{Code: "08001"}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, true},
		{"admin shutdown", &pgconn.PgError{Code: "57P01"}, true},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"syntax error", &pgconn.PgError{Code: "42601"}, false},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"bad password", &pgconn.PgError{Code: "28P01", Message: "connection refused"}, false},
		{"wrapped pg error", fmt.Errorf("copy: %w", &pgconn.PgError{Code: "08006"}), true},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"reset", &net.OpError{Op: "read", Err: syscall.ECONNRESET}, true},
		{"dns temporary", &net.DNSError{Err: "x", IsTemporary: true}, true},
		{"dns not found", &net.DNSError{Err: "x", IsNotFound: true}, false},
		{"message", errors.New("write: broken pipe"), true},
		{"cancelled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, c.IsTransient(tt.err))
		})
	}
}

func TestObjectStoreErrorClassifier(t *testing.T) {
	c := NewObjectStoreErrorClassifier()

	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"nil", nil, false},
		{"slow down", minio.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, true},
		{"internal", minio.ErrorResponse{Code: "InternalError"}, true},
		{"throttled", minio.ErrorResponse{Code: "Other", StatusCode: http.StatusTooManyRequests}, true},
		{"bad gateway", minio.ErrorResponse{StatusCode: http.StatusBadGateway}, true},
		{"no bucket", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}, false},
		{"denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, false},
		{"wrapped", fmt.Errorf("upload: %w", minio.ErrorResponse{Code: "RequestTimeout"}), true},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, c.IsTransient(tt.err))
		})
	}
}
