package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ServerInfo is what Probe reports about a reachable database.
type ServerInfo struct {
	Version string
	Latency time.Duration
}

// Probe opens a one-off pgx connection and reads the server version. It does
// not go through the gorm pool so it also works before migrations ran.
func Probe(ctx context.Context, dsn string) (*ServerInfo, error) {
	start := time.Now()

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	return &ServerInfo{Version: version, Latency: time.Since(start)}, nil
}

// IsUndefinedTable reports whether err is postgres "relation does not exist",
// i.e. the migrations have not been applied yet.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42P01"
}
