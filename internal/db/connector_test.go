package db

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/internal/logging"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

type stubTokenProvider struct {
	token string
	err   error
	calls int
}

func (p *stubTokenProvider) GetToken(context.Context) (string, time.Time, error) {
	p.calls++
	return p.token, time.Now().Add(time.Hour), p.err
}

func (p *stubTokenProvider) String() string { return "stub" }

func TestBuildConnectionString(t *testing.T) {
	cfg := &ldmcsv.ConnectionConfig{
		Host:             "db.example.com",
		Port:             6432,
		Database:         "staging",
		Username:         "loader",
		Password:         "p@ss:word",
		SSLMode:          "require",
		AppName:          "ldmcsv",
		ConnectTimeout:   5 * time.Second,
		AdditionalParams: map[string]string{"search_path": "ldm"},
	}

	u, err := url.Parse(BuildConnectionString(cfg))
	require.NoError(t, err)

	assert.Equal(t, "postgresql", u.Scheme)
	assert.Equal(t, "db.example.com:6432", u.Host)
	assert.Equal(t, "/staging", u.Path)
	assert.Equal(t, "loader", u.User.Username())
	password, ok := u.User.Password()
	assert.True(t, ok)
	assert.Equal(t, "p@ss:word", password)

	q := u.Query()
	assert.Equal(t, "require", q.Get("sslmode"))
	assert.Equal(t, "ldmcsv", q.Get("application_name"))
	assert.Equal(t, "5", q.Get("connect_timeout"))
	assert.Equal(t, "ldm", q.Get("search_path"))
}

func TestBuildConnectionString_NoCredentials(t *testing.T) {
	s := BuildConnectionString(&ldmcsv.ConnectionConfig{Host: "localhost", Port: 5432, Database: "d"})
	assert.Equal(t, "postgresql://localhost:5432/d", s)

	s = BuildConnectionString(&ldmcsv.ConnectionConfig{Host: "localhost", Port: 5432, Database: "d", Username: "u"})
	assert.Equal(t, "postgresql://u@localhost:5432/d", s)
}

func TestNewConnector(t *testing.T) {
	logger := logging.NewNullLogger()
	base := func() *ldmcsv.ConnectionConfig {
		return &ldmcsv.ConnectionConfig{Host: "localhost", Port: 5432, Database: "d", Username: "u"}
	}

	c, err := NewConnector(base(), logger)
	require.NoError(t, err)
	assert.IsType(t, &PoolConnector{}, c)

	cfg := base()
	cfg.AuthMethod = ldmcsv.AuthMethodGoogleIAM
	_, err = NewConnector(cfg, logger)
	assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig, "instance name missing")

	cfg.GoogleInstance = "proj:region:inst"
	c, err = NewConnector(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &CloudSQLConnector{}, c)

	cfg = base()
	cfg.AuthMethod = ldmcsv.AuthMethodAWSIAM
	_, err = NewConnector(cfg, logger)
	assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig, "region missing")

	cfg.AWSRegion = "eu-west-1"
	c, err = NewConnector(cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &PoolConnector{}, c)

	cfg = base()
	cfg.AuthMethod = ldmcsv.AuthMethod(42)
	_, err = NewConnector(cfg, logger)
	assert.ErrorIs(t, err, ldmcsv.ErrUnsupportedAuthMethod)

	cfg = base()
	cfg.Database = ""
	_, err = NewConnector(cfg, logger)
	assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig)
}

func TestNewAzureServicePrincipalProvider_RequiresAllFields(t *testing.T) {
	_, err := NewAzureServicePrincipalProvider("tenant", "", "secret")
	assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig)
}

func TestTokenConnector_TokenFailureIsNotRetried(t *testing.T) {
	provider := &stubTokenProvider{err: errors.New("credentials expired")}
	cfg := &ldmcsv.ConnectionConfig{Host: "localhost", Port: 5432, Database: "d", Username: "u"}

	_, err := NewTokenConnector(cfg, provider, logging.NewNullLogger()).Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials expired")
	assert.Contains(t, err.Error(), "stub")
	assert.Equal(t, 1, provider.calls)
}

func TestStandardConnector_Refused(t *testing.T) {
	if testing.Short() {
		t.Skip("retries with real delays")
	}
	cfg := &ldmcsv.ConnectionConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Database:       "d",
		Username:       "u",
		ConnectTimeout: time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := NewStandardConnector(cfg, logging.NewNullLogger()).Connect(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ldmcsv.ErrConnectionFailed)
}

func TestWrapConnectionError(t *testing.T) {
	cfg := &ldmcsv.ConnectionConfig{Host: "h", Port: 5432, Database: "staging"}

	tests := []struct {
		raw      string
		contains string
	}{
		{"dial tcp: connection refused", "is PostgreSQL running on h:5432"},
		{"lookup h: no such host", "check the host name in h:5432"},
		{"FATAL: password authentication failed for user", `database "staging"`},
		{`database "staging" does not exist`, `create database "staging"`},
		{"i/o timeout", "did not answer"},
		{"something else", "connect to h:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			raw := errors.New(tt.raw)
			err := wrapConnectionError(raw, cfg)
			assert.Contains(t, err.Error(), tt.contains)
			assert.ErrorIs(t, err, ldmcsv.ErrConnectionFailed)
			assert.ErrorIs(t, err, raw)
		})
	}
}
