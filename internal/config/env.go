package config

// Environment variables that override ldmcsv.yaml. Secrets are expected
// here (or in .env) rather than in the committed config file.
const (
	EnvProjectID      = "LDMCSV_PROJECT_ID"
	EnvPGPassword     = "PGPASSWORD"
	EnvAWSRegion      = "AWS_REGION"
	EnvAzureSecret    = "AZURE_CLIENT_SECRET"
	EnvMinIOAccessKey = "LDMCSV_MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "LDMCSV_MINIO_SECRET_KEY"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides config values with the environment variables that are
// set. AWS_REGION only fills an empty aws_region.
func (c *ProjectConfig) ApplyEnv(lookup LookupFunc) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&c.ProjectID, EnvProjectID)
	set(&c.Backend.Postgres.Password, EnvPGPassword)
	set(&c.Backend.Postgres.AzureClientSecret, EnvAzureSecret)
	set(&c.Backend.MinIO.AccessKey, EnvMinIOAccessKey)
	set(&c.Backend.MinIO.SecretKey, EnvMinIOSecretKey)
	if c.Backend.Postgres.AWSRegion == "" {
		set(&c.Backend.Postgres.AWSRegion, EnvAWSRegion)
	}
}
