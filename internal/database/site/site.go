// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package site owns the `sites` table's one hand-written SQL path. Every
other entity in internal/database/schema is written through the generic
descriptor-driven Store; sites cannot be, because a site upsert must never
reset the crawl cursor columns (last_post_page, last_comment_page) when an
already-known instance is rediscovered through federation peering. The
generic three-case conflict policy in [store.Store.BulkUpsert] always
overwrites every non-key column on conflict, which is exactly wrong here.
*/
package site

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

// classify maps a raw pgx/pgxpool error to the closed [xerr.Kind]
// taxonomy, matching internal/database/store's policy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, pgxpool.ErrClosedPool) {
		return xerr.New(xerr.Connection, op, err)
	}
	return xerr.New(xerr.Database, op, err)
}

// Row is one `sites` row.
type Row struct {
	ActorID         string
	Name            string
	LastPostPage    int
	LastCommentPage int
	LastUpdate      time.Time
}

// Repository is the cursor-preserving `sites` read/write path.
type Repository struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// upsertStatement starts both cursor columns at 0 for a first-seen
// instance, and excludes them from the conflict clause entirely so a
// rediscovered instance never has its crawl progress reset.
const upsertStatement = `
	INSERT INTO sites (actor_id, name, last_post_page, last_comment_page, last_update)
	VALUES ($1, $2, 0, 0, $3)
	ON CONFLICT (actor_id) DO UPDATE SET
		name = excluded.name,
		last_update = excluded.last_update
`

// Upsert records actorID as known, under name, without disturbing either
// cursor column if the row already exists. A first-seen instance starts
// both cursors at 0.
func (r *Repository) Upsert(ctx context.Context, actorID, name string) error {
	if _, err := r.pool.Exec(ctx, upsertStatement, actorID, name, time.Now().UTC()); err != nil {
		return classify("site.upsert", err)
	}
	return nil
}

// Get returns the row for actorID, or (Row{}, false, nil) if unknown.
func (r *Repository) Get(ctx context.Context, actorID string) (Row, bool, error) {
	const query = `
		SELECT actor_id, name, last_post_page, last_comment_page, last_update
		FROM sites WHERE actor_id = $1
	`
	row := r.pool.QueryRow(ctx, query, actorID)

	var out Row
	err := row.Scan(&out.ActorID, &out.Name, &out.LastPostPage, &out.LastCommentPage, &out.LastUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Row{}, false, nil
	}
	if err != nil {
		return Row{}, false, classify("site.get", err)
	}
	return out, true, nil
}

// List returns every known instance.
func (r *Repository) List(ctx context.Context) ([]Row, error) {
	const query = `
		SELECT actor_id, name, last_post_page, last_comment_page, last_update
		FROM sites ORDER BY actor_id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, classify("site.list", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ActorID, &row.Name, &row.LastPostPage, &row.LastCommentPage, &row.LastUpdate); err != nil {
			return nil, classify("site.list", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("site.list", err)
	}
	return out, nil
}

// SetLastPostPage advances the post-listing cursor. Callers persist the
// next page to fetch, not the last page fetched, so a resumed pass starts
// exactly where the previous one left off.
func (r *Repository) SetLastPostPage(ctx context.Context, actorID string, page int) error {
	const query = `UPDATE sites SET last_post_page = $2, last_update = $3 WHERE actor_id = $1`
	if _, err := r.pool.Exec(ctx, query, actorID, page, time.Now().UTC()); err != nil {
		return classify("site.set_last_post_page", err)
	}
	return nil
}
