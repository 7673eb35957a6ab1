package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "ldmcsv.yaml"

// Backend types.
const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMinIO    = "minio"
)

type CSVConfig struct {
	Delimiter string `yaml:"delimiter,omitempty"`
}

type GenerationConfig struct {
	Folder         string `yaml:"folder,omitempty"`
	LabelReference string `yaml:"label_reference,omitempty"`
}

type PostgresConfig struct {
	Host              string `yaml:"host"`
	Port              int    `yaml:"port"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password,omitempty"`
	Database          string `yaml:"database"`
	SSLMode           string `yaml:"sslmode,omitempty"`
	AuthMethod        string `yaml:"auth_method,omitempty"`
	ConnectTimeout    string `yaml:"connect_timeout,omitempty"`
	AWSRegion         string `yaml:"aws_region,omitempty"`
	GoogleInstance    string `yaml:"google_instance,omitempty"`
	AzureTenantID     string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID     string `yaml:"azure_client_id,omitempty"`
	AzureClientSecret string `yaml:"azure_client_secret,omitempty"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MinIOConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Region       string `yaml:"region,omitempty"`
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix,omitempty"`
	AccessKey    string `yaml:"access_key,omitempty"`
	SecretKey    string `yaml:"secret_key,omitempty"`
	UseSSL       bool   `yaml:"use_ssl"`
	CreateBucket bool   `yaml:"create_bucket,omitempty"`
}

type BackendConfig struct {
	Type     string         `yaml:"type"`
	Table    string         `yaml:"table,omitempty"`
	TempDir  string         `yaml:"temp_dir,omitempty"`
	Postgres PostgresConfig `yaml:"postgres,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	MinIO    MinIOConfig    `yaml:"minio,omitempty"`
}

type ProjectConfig struct {
	ProjectID  string           `yaml:"project_id,omitempty"`
	CSV        CSVConfig        `yaml:"csv,omitempty"`
	Generation GenerationConfig `yaml:"generation,omitempty"`
	Backend    BackendConfig    `yaml:"backend"`
}

// Default returns the configuration used when no ldmcsv.yaml exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Backend: BackendConfig{Type: BackendNone},
	}
}

// Load reads the config file at path. A directory path is resolved to the
// ldmcsv.yaml inside it.
func Load(path string) (*ProjectConfig, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, ldmcsv.ErrInvalidConfig, err)
	}
	if cfg.Backend.Type == "" {
		cfg.Backend.Type = BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem found, each wrapping ldmcsv.ErrInvalidConfig.
func (c *ProjectConfig) Validate() error {
	var errs []error

	if _, err := c.Delimiter(); err != nil {
		errs = append(errs, err)
	}

	switch c.Backend.Type {
	case BackendNone:
	case BackendPostgres:
		if _, err := ldmcsv.ParseAuthMethod(c.Backend.Postgres.AuthMethod); err != nil {
			errs = append(errs, fmt.Errorf("backend.postgres.auth_method: %w: %w", ldmcsv.ErrInvalidConfig, err))
		}
		if _, err := c.Backend.Postgres.connectTimeout(); err != nil {
			errs = append(errs, err)
		}
	case BackendSQLite:
		if c.Backend.SQLite.Path == "" {
			errs = append(errs, fmt.Errorf("backend.sqlite.path is required: %w", ldmcsv.ErrInvalidConfig))
		}
	case BackendMinIO:
		if c.Backend.MinIO.Endpoint == "" {
			errs = append(errs, fmt.Errorf("backend.minio.endpoint is required: %w", ldmcsv.ErrInvalidConfig))
		}
		if c.Backend.MinIO.Bucket == "" {
			errs = append(errs, fmt.Errorf("backend.minio.bucket is required: %w", ldmcsv.ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.type %q: want one of %s, %s, %s, %s: %w",
			c.Backend.Type, BackendNone, BackendPostgres, BackendSQLite, BackendMinIO, ldmcsv.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Delimiter returns the configured field separator. "\t" and "tab" select a
// tab; anything else must be a single character.
func (c *ProjectConfig) Delimiter() (rune, error) {
	return ParseDelimiter(c.CSV.Delimiter)
}

// ParseDelimiter parses a delimiter setting. The empty string means a comma.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return ldmcsv.DefaultDelimiter, nil
	case `\t`, "tab":
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, fmt.Errorf("csv.delimiter %q: must be a single character other than a quote or line break: %w", s, ldmcsv.ErrInvalidConfig)
	}
	return r, nil
}

func (p PostgresConfig) connectTimeout() (time.Duration, error) {
	if p.ConnectTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.ConnectTimeout)
	if err != nil {
		return 0, fmt.Errorf("backend.postgres.connect_timeout: %w: %w", ldmcsv.ErrInvalidConfig, err)
	}
	return d, nil
}

// ConnectionConfig converts the postgres section for internal/db.
func (p PostgresConfig) ConnectionConfig() (*ldmcsv.ConnectionConfig, error) {
	auth, err := ldmcsv.ParseAuthMethod(p.AuthMethod)
	if err != nil {
		return nil, err
	}
	timeout, err := p.connectTimeout()
	if err != nil {
		return nil, err
	}

	port := p.Port
	if port == 0 {
		port = 5432
	}
	sslMode := p.SSLMode
	if sslMode == "" {
		sslMode = "prefer"
	}

	return &ldmcsv.ConnectionConfig{
		Host:              p.Host,
		Port:              port,
		Database:          p.Database,
		Username:          p.Username,
		Password:          p.Password,
		SSLMode:           sslMode,
		AuthMethod:        auth,
		AppName:           "ldmcsv",
		ConnectTimeout:    timeout,
		AWSRegion:         p.AWSRegion,
		GoogleInstance:    p.GoogleInstance,
		AzureTenantID:     p.AzureTenantID,
		AzureClientID:     p.AzureClientID,
		AzureClientSecret: p.AzureClientSecret,
	}, nil
}
