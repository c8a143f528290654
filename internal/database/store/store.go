// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package store owns the PostgreSQL connection pool and the two descriptor-
driven primitives every entity in internal/database/schema is written
against: CreateTable and BulkUpsert. Table creation and upsert statements
are both generated from a [schema.Descriptor]. The one exception is the
sites upsert, which internal/database/site writes by hand so that its
cursor columns survive a conflict.
*/
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcmaehl/lemmysearch/internal/database/schema"
	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

// classify maps a raw pgx/pgxpool error to the closed [xerr.Kind]
// taxonomy: connection-checkout/deadline failures are [xerr.Connection],
// everything else that reaches the server is [xerr.Database].
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, pgxpool.ErrClosedPool) {
		return xerr.New(xerr.Connection, op, err)
	}
	return xerr.New(xerr.Database, op, err)
}

// Store wraps the pooled PostgreSQL connection and exposes descriptor-
// driven schema and upsert primitives.
type Store struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool, log *slog.Logger) *Store {
	return &Store{pool: pool, log: log}
}

// # Schema bootstrap

// CreateTable issues an idempotent CREATE TABLE IF NOT EXISTS derived from
// d's column list. [Store.CreateTableDropFirst] is the variant preceded by
// DROP TABLE IF EXISTS, for test fixtures and local resets.
func (s *Store) CreateTable(ctx context.Context, d schema.Descriptor) error {
	return s.createTable(ctx, d, false)
}

// CreateTableDropFirst is [Store.CreateTable] preceded by a DROP TABLE.
func (s *Store) CreateTableDropFirst(ctx context.Context, d schema.Descriptor) error {
	return s.createTable(ctx, d, true)
}

func (s *Store) createTable(ctx context.Context, d schema.Descriptor, drop bool) error {
	var sb strings.Builder

	if drop {
		fmt.Fprintf(&sb, "DROP TABLE IF EXISTS %s CASCADE;\n", d.TableName())
	}

	columns := d.Columns()
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", col.Name, col.Type))
	}

	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		d.TableName(), strings.Join(defs, ",\n\t"))

	if _, err := s.pool.Exec(ctx, sb.String()); err != nil {
		return classify("create_table:"+d.TableName(), err)
	}

	s.log.Info("table_ready", slog.String("table", d.TableName()))
	return nil
}

// # Bulk upsert

// BulkUpsert inserts every row in rows in a single parameterized
// statement, following the three-case conflict policy:
//
//   - No declared keys: plain INSERT, no ON CONFLICT clause.
//   - Keys declared, no non-key columns: ON CONFLICT (...) DO NOTHING.
//   - Keys declared, non-key columns present: ON CONFLICT (...) DO UPDATE
//     SET <col> = excluded.<col> for every non-key column.
//
// Generated columns (schema.Column.Generated) are excluded from the
// INSERT column list — Postgres computes them — so rows must supply
// Values() in the same order as the descriptor's non-generated columns.
//
// An empty rows slice is a no-op.
func (s *Store) BulkUpsert(ctx context.Context, d schema.Descriptor, rows []schema.Row) error {
	if len(rows) == 0 {
		return nil
	}

	query, args := buildUpsertQuery(d, rows)

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return classify("bulk_upsert:"+d.TableName(), err)
	}

	return nil
}

// buildUpsertQuery renders the parameterized INSERT ... ON CONFLICT
// statement for rows against d, implementing the three-case conflict
// policy documented on [Store.BulkUpsert]. Split out from BulkUpsert so
// the SQL shape can be tested without a live pool.
func buildUpsertQuery(d schema.Descriptor, rows []schema.Row) (string, []any) {
	insertable := make([]schema.Column, 0, len(d.Columns()))
	for _, col := range d.Columns() {
		if !col.Generated {
			insertable = append(insertable, col)
		}
	}

	columnNames := make([]string, len(insertable))
	for i, col := range insertable {
		columnNames[i] = col.Name
	}

	args := make([]any, 0, len(rows)*len(insertable))
	valueGroups := make([]string, 0, len(rows))

	index := 1
	for _, row := range rows {
		values := row.Values()
		placeholders := make([]string, len(values))
		for i := range values {
			placeholders[i] = fmt.Sprintf("$%d", index)
			index++
		}
		valueGroups = append(valueGroups, "("+strings.Join(placeholders, ", ")+")")
		args = append(args, values...)
	}

	keys := d.Keys()
	keySet := make(map[string]bool, len(keys))
	for _, k := range keys {
		keySet[k] = true
	}

	nonKeyAssignments := make([]string, 0, len(insertable))
	for _, col := range insertable {
		if !keySet[col.Name] {
			nonKeyAssignments = append(nonKeyAssignments, fmt.Sprintf("%s = excluded.%s", col.Name, col.Name))
		}
	}

	var conflictClause string
	switch {
	case len(keys) == 0:
		conflictClause = ""
	case len(nonKeyAssignments) == 0:
		conflictClause = fmt.Sprintf("ON CONFLICT (%s) DO NOTHING", strings.Join(keys, ", "))
	default:
		conflictClause = fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s",
			strings.Join(keys, ", "), strings.Join(nonKeyAssignments, ", "))
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s %s",
		d.TableName(),
		strings.Join(columnNames, ", "),
		strings.Join(valueGroups, ", "),
		conflictClause,
	)

	return query, args
}

// Pool exposes the underlying pool for components that need raw query
// access (the search engine's read path).
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}
