// Package pg bootstraps the PostgreSQL layer used by the communication
// module: a pgx/v5 connection pool with retrying startup, goose schema
// migrations, a health check closure, and error classification helpers.
//
// Config is populated from environment variables (see pkg/config). The
// migration runner expects plain goose SQL files under the configured
// migrations directory.
package pg
