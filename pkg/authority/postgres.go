package authority

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultPGTable is queried when no table name is configured.
const DefaultPGTable = "strat_relationships"

// PostgresSource reads pairs from a PostgreSQL table with
// over_unit and under_unit columns.
type PostgresSource struct {
	DSN   string
	Table string
}

// NewPostgresSource creates a PostgreSQL-backed source.
func NewPostgresSource(dsn, table string) *PostgresSource {
	if table == "" {
		table = DefaultPGTable
	}
	return &PostgresSource{DSN: dsn, Table: table}
}

func (s *PostgresSource) Name() string { return "postgres" }

// query builds the select statement with a sanitised, possibly
// schema-qualified table name.
func (s *PostgresSource) query() string {
	return fmt.Sprintf("SELECT over_unit, under_unit FROM %s ORDER BY 1, 2",
		pgx.Identifier(strings.Split(s.Table, ".")).Sanitize())
}

// Load connects, reads every pair and closes the pool.
func (s *PostgresSource) Load(ctx context.Context) (*Table, error) {
	config, err := pgxpool.ParseConfig(s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 2
	config.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	rows, err := pool.Query(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	pairs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Pair, error) {
		var p Pair
		err := row.Scan(&p.Over, &p.Under)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.Table, err)
	}
	return NewTable(pairs...), nil
}
