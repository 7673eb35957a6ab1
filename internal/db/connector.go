package db

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/ldmcsv/internal/retry"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

const (
	// DefaultMaxConns is enough for one COPY plus housekeeping queries.
	DefaultMaxConns = 4

	DefaultMinConns = 1

	DefaultMaxConnIdleTime = 10 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger ldmcsv.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
	}
}

func newExecutor(logger ldmcsv.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(ldmcsv.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(ldmcsv.DefaultRetryInitialDelay),
		retry.WithMaxDelay(ldmcsv.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewPostgreSQLErrorClassifier(), strategy).WithLogger(logger, "connect")
}

// passwordFunc supplies the password for one connection attempt.
type passwordFunc func(ctx context.Context) (string, error)

// PoolConnector opens a pool from a ConnectionConfig, retrying transient
// failures. The password comes either from the config or from a token
// provider, evaluated again on every attempt.
type PoolConnector struct {
	config   *ldmcsv.ConnectionConfig
	logger   ldmcsv.Logger
	executor *retry.Executor
	password passwordFunc
}

// NewStandardConnector authenticates with the configured username and password.
func NewStandardConnector(config *ldmcsv.ConnectionConfig, logger ldmcsv.Logger) *PoolConnector {
	return &PoolConnector{
		config:   config,
		logger:   logger,
		executor: newExecutor(logger),
		password: func(context.Context) (string, error) { return config.Password, nil },
	}
}

// NewTokenConnector authenticates with a short-lived token from provider.
func NewTokenConnector(config *ldmcsv.ConnectionConfig, provider TokenProvider, logger ldmcsv.Logger) *PoolConnector {
	return &PoolConnector{
		config:   config,
		logger:   logger,
		executor: newExecutor(logger),
		password: func(ctx context.Context) (string, error) {
			token, expiresOn, err := provider.GetToken(ctx)
			if err != nil {
				return "", fmt.Errorf("acquire token from %s: %w", provider, err)
			}
			if remaining := time.Until(expiresOn); remaining < 5*time.Minute {
				logger.Info("Warning: %s token expires in %v", provider, remaining.Round(time.Second))
			}
			return token, nil
		},
	}
}

func (c *PoolConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	err := c.executor.Execute(ctx, func(ctx context.Context) error {
		password, err := c.password(ctx)
		if err != nil {
			return err
		}

		withPassword := *c.config
		withPassword.Password = password

		poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(&withPassword))
		if err != nil {
			return fmt.Errorf("parse connection config: %w: %w", ldmcsv.ErrInvalidConfig, err)
		}
		configurePool(poolConfig, c.logger)

		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return wrapConnectionError(err, c.config)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Verbose("connected to %s:%d/%s", c.config.Host, c.config.Port, c.config.Database)
	return pool, nil
}

// NewConnector picks the connector for config.AuthMethod.
func NewConnector(config *ldmcsv.ConnectionConfig, logger ldmcsv.Logger) (ldmcsv.Connector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.AuthMethod {
	case ldmcsv.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil

	case ldmcsv.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", config.Host, config.Port), config.AWSRegion, config.Username)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(config, provider, logger), nil

	case ldmcsv.AuthMethodAzureEntraID:
		provider, err := newAzureTokenProvider(config)
		if err != nil {
			return nil, err
		}
		return NewTokenConnector(config, provider, logger), nil

	case ldmcsv.AuthMethodGoogleIAM:
		return NewCloudSQLConnector(config, logger)

	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, ldmcsv.ErrUnsupportedAuthMethod)
	}
}

// BuildConnectionString renders config as a postgresql:// URL.
func BuildConnectionString(config *ldmcsv.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	switch {
	case config.Username != "" && config.Password != "":
		u.User = url.UserPassword(config.Username, config.Password)
	case config.Username != "":
		u.User = url.User(config.Username)
	}

	query := url.Values{}
	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}
	u.RawQuery = query.Encode()

	return u.String()
}

var connectionHints = []struct {
	patterns []string
	hint     string
}{
	{[]string{"connection refused", "actively refused"}, "is PostgreSQL running on %[1]s, and is the port right?"},
	{[]string{"no such host", "no host"}, "check the host name in %[1]s"},
	{[]string{"password authentication failed"}, "check the username and password (PGPASSWORD) for database %[2]q"},
	{[]string{"does not exist"}, "create database %[2]q or fix backend.postgres.database"},
	{[]string{"timeout", "timed out"}, "%[1]s did not answer; check firewalls and the address"},
	{[]string{"ssl", "tls"}, "check backend.postgres.sslmode"},
	{[]string{"too many connections"}, "the server's max_connections limit is reached"},
}

// wrapConnectionError adds a hint for common failures and classifies the
// result as ErrConnectionFailed. The original error stays in the chain so
// the retry classifier still sees it.
func wrapConnectionError(err error, config *ldmcsv.ConnectionConfig) error {
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	msg := strings.ToLower(err.Error())

	for _, h := range connectionHints {
		for _, p := range h.patterns {
			if strings.Contains(msg, p) {
				hint := fmt.Sprintf(h.hint, addr, config.Database)
				return fmt.Errorf("connect to %s (%s): %w: %w", addr, hint, ldmcsv.ErrConnectionFailed, err)
			}
		}
	}
	return fmt.Errorf("connect to %s: %w: %w", addr, ldmcsv.ErrConnectionFailed, err)
}
