package backend

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/config"
	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "staging/orders/abc.csv", ObjectKey("/staging/", "orders", "abc"))
	assert.Equal(t, "orders/abc.csv", ObjectKey("", "orders", "abc"))
	assert.Equal(t, "a/b/orders/abc.csv", ObjectKey("a/b", "orders", "abc"))
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in         string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"localhost:9000", false, "localhost:9000", false},
		{"localhost:9000", true, "localhost:9000", true},
		{"https://s3.example.com/", false, "s3.example.com", true},
		{"http://minio:9000", false, "minio:9000", false},
	}
	for _, tt := range tests {
		host, secure := splitEndpoint(tt.in, tt.useSSL)
		assert.Equal(t, tt.wantHost, host, tt.in)
		assert.Equal(t, tt.wantSecure, secure, tt.in)
	}
}

func TestNewMinIOClient(t *testing.T) {
	client, err := NewMinIOClient(config.MinIOConfig{Endpoint: "https://play.min.io", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "play.min.io", client.EndpointURL().Host)
	assert.Equal(t, "https", client.EndpointURL().Scheme)

	_, err = NewMinIOClient(config.MinIOConfig{Endpoint: "bad host:notaport"})
	assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig)
}

func TestObjectStoreSink_RejectsMismatchBeforeUpload(t *testing.T) {
	client, err := NewMinIOClient(config.MinIOConfig{Endpoint: "127.0.0.1:1", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)

	sink := NewObjectStoreSink(client, Target{Schema: ordersSchema(), RunID: uuid.New()},
		ObjectStoreOptions{Bucket: "b", Delimiter: ','}, logging.NewNullLogger())

	err = sink.Extract(context.Background(), writeData(t, "only,two\n"))
	assert.ErrorIs(t, err, ldmcsv.ErrModel)
}
