// Package db opens pgx connection pools to the PostgreSQL backend for each
// supported authentication method: password, AWS RDS IAM tokens, Azure
// Entra ID tokens and the Google Cloud SQL connector.
package db
