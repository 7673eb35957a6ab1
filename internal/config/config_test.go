package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))
	return dir
}

func TestLoad_AllFields(t *testing.T) {
	dir := writeConfig(t, `project_id: sales-dwh
csv:
  delimiter: ";"
generation:
  folder: Staging
  label_reference: customer_id
backend:
  type: postgres
  table: stage_orders
  temp_dir: /var/tmp
  postgres:
    host: db.internal
    port: 6432
    username: loader
    database: staging
    sslmode: require
    auth_method: aws
    connect_timeout: 15s
    aws_region: eu-central-1
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "sales-dwh", cfg.ProjectID)
	assert.Equal(t, "Staging", cfg.Generation.Folder)
	assert.Equal(t, "customer_id", cfg.Generation.LabelReference)
	assert.Equal(t, BackendPostgres, cfg.Backend.Type)
	assert.Equal(t, "stage_orders", cfg.Backend.Table)
	assert.Equal(t, "/var/tmp", cfg.Backend.TempDir)

	delim, err := cfg.Delimiter()
	require.NoError(t, err)
	assert.Equal(t, ';', delim)

	conn, err := cfg.Backend.Postgres.ConnectionConfig()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, 6432, conn.Port)
	assert.Equal(t, "require", conn.SSLMode)
	assert.Equal(t, ldmcsv.AuthMethodAWSIAM, conn.AuthMethod)
	assert.Equal(t, 15*time.Second, conn.ConnectTimeout)
	assert.Equal(t, "eu-central-1", conn.AWSRegion)
	assert.Equal(t, "ldmcsv", conn.AppName)
}

func TestLoad_FilePath(t *testing.T) {
	dir := writeConfig(t, "backend:\n  type: sqlite\n  sqlite:\n    path: stage.db\n")

	cfg, err := Load(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "stage.db", cfg.Backend.SQLite.Path)
}

func TestLoad_Minimal(t *testing.T) {
	dir := writeConfig(t, "project_id: p1\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, BackendNone, cfg.Backend.Type)

	delim, err := cfg.Delimiter()
	require.NoError(t, err)
	assert.Equal(t, ',', delim)
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "backend: [\n"},
		{"unknown backend", "backend:\n  type: oracle\n"},
		{"sqlite without path", "backend:\n  type: sqlite\n"},
		{"minio without bucket", "backend:\n  type: minio\n  minio:\n    endpoint: localhost:9000\n"},
		{"bad auth", "backend:\n  type: postgres\n  postgres:\n    auth_method: kerberos\n"},
		{"bad timeout", "backend:\n  type: postgres\n  postgres:\n    connect_timeout: soon\n"},
		{"long delimiter", "csv:\n  delimiter: '::'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig)
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{"|", '|', false},
		{`\t`, '\t', false},
		{"TAB", '\t', false},
		{"§", '§', false},
		{`"`, 0, true},
		{"ab", 0, true},
		{"\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDelimiter(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ldmcsv.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostgresConfig_Defaults(t *testing.T) {
	conn, err := PostgresConfig{Host: "h", Database: "d"}.ConnectionConfig()
	require.NoError(t, err)

	assert.Equal(t, 5432, conn.Port)
	assert.Equal(t, "prefer", conn.SSLMode)
	assert.Equal(t, ldmcsv.AuthMethodStandard, conn.AuthMethod)
	assert.Zero(t, conn.ConnectTimeout)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvProjectID:      "from-env",
		EnvPGPassword:     "secret",
		EnvMinIOAccessKey: "ak",
		EnvMinIOSecretKey: "sk",
		EnvAWSRegion:      "us-east-1",
		EnvAzureSecret:    "",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	cfg.ProjectID = "from-file"
	cfg.Backend.Postgres.AzureClientSecret = "file-secret"
	cfg.Backend.Postgres.AWSRegion = "eu-west-1"
	cfg.ApplyEnv(lookup)

	assert.Equal(t, "from-env", cfg.ProjectID)
	assert.Equal(t, "secret", cfg.Backend.Postgres.Password)
	assert.Equal(t, "ak", cfg.Backend.MinIO.AccessKey)
	assert.Equal(t, "sk", cfg.Backend.MinIO.SecretKey)
	assert.Equal(t, "file-secret", cfg.Backend.Postgres.AzureClientSecret, "empty variables do not override")
	assert.Equal(t, "eu-west-1", cfg.Backend.Postgres.AWSRegion, "AWS_REGION only fills a missing region")
}
