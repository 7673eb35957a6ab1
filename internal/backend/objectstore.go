package backend

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vvka-141/ldmcsv/internal/checksum"
	"github.com/vvka-141/ldmcsv/internal/config"
	"github.com/vvka-141/ldmcsv/internal/retry"
	"github.com/vvka-141/ldmcsv/pkg/ldmcsv"
)

// NewMinIOClient creates a client for any S3-compatible endpoint. Without
// static keys the MINIO_* and AWS_* environment variables are used.
func NewMinIOClient(cfg config.MinIOConfig) (*minio.Client, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvMinio{},
			&credentials.EnvAWS{},
		})
	}

	endpoint, secure := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store client for %s: %w: %w", cfg.Endpoint, ldmcsv.ErrInvalidConfig, err)
	}
	return client, nil
}

// splitEndpoint accepts host:port or a URL; an https scheme turns TLS on.
func splitEndpoint(endpoint string, useSSL bool) (string, bool) {
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return strings.TrimSuffix(rest, "/"), true
	}
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return strings.TrimSuffix(rest, "/"), useSSL
	}
	return endpoint, useSSL
}

type ObjectStoreOptions struct {
	Bucket       string
	Prefix       string
	Region       string
	CreateBucket bool
	Delimiter    rune
}

// ObjectStoreSink uploads the validated file as
// <prefix>/<schema>/<run id>.csv.
type ObjectStoreSink struct {
	client   *minio.Client
	target   Target
	opts     ObjectStoreOptions
	logger   ldmcsv.Logger
	executor *retry.Executor
}

func NewObjectStoreSink(client *minio.Client, t Target, opts ObjectStoreOptions, logger ldmcsv.Logger) *ObjectStoreSink {
	strategy := retry.NewExponentialBackoff(ldmcsv.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(ldmcsv.DefaultRetryInitialDelay),
		retry.WithMaxDelay(ldmcsv.DefaultRetryMaxDelay),
	)
	return &ObjectStoreSink{
		client:   client,
		target:   t,
		opts:     opts,
		logger:   logger,
		executor: retry.NewExecutor(retry.NewObjectStoreErrorClassifier(), strategy).WithLogger(logger, "upload"),
	}
}

// ObjectKey is the key a run's file is stored under.
func ObjectKey(prefix, schemaName, runID string) string {
	return path.Join(strings.Trim(prefix, "/"), schemaName, runID+".csv")
}

func (s *ObjectStoreSink) Extract(ctx context.Context, filePath string) error {
	rows, err := checkRows(filePath, s.opts.Delimiter, newLayout(s.target.Schema))
	if err != nil {
		return err
	}

	if s.opts.CreateBucket {
		if err := s.ensureBucket(ctx); err != nil {
			return err
		}
	}

	sum, err := checksum.New().File(filePath)
	if err != nil {
		return err
	}

	key := ObjectKey(s.opts.Prefix, s.target.Schema.Name, s.target.RunID.String())
	var info minio.UploadInfo
	err = s.executor.Execute(ctx, func(ctx context.Context) error {
		var putErr error
		info, putErr = s.client.FPutObject(ctx, s.opts.Bucket, key, filePath, minio.PutObjectOptions{
			ContentType: "text/csv",
			UserMetadata: map[string]string{
				"schema": s.target.Schema.Name,
				"run-id": s.target.RunID.String(),
				"rows":   fmt.Sprint(rows),
				"sha256": sum,
			},
		})
		return putErr
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w: %w", s.opts.Bucket, key, ldmcsv.ErrConnectionFailed, err)
	}

	s.logger.Info("Uploaded %d rows (%d bytes) to %s/%s", rows, info.Size, s.opts.Bucket, key)
	return nil
}

func (s *ObjectStoreSink) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.opts.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w: %w", s.opts.Bucket, ldmcsv.ErrConnectionFailed, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.opts.Bucket, minio.MakeBucketOptions{Region: s.opts.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w: %w", s.opts.Bucket, ldmcsv.ErrConnectionFailed, err)
	}
	s.logger.Verbose("created bucket %s", s.opts.Bucket)
	return nil
}
