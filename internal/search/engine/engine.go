// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package engine executes ranked full-text search over the ingested post
index and caches whole-page responses in Redis, keyed on every input that
can change the result set.

The WHERE clause uses the stable-parameter-ordinality technique: every
optional filter is a tautological predicate ($n = '' OR ...) rather than a
dynamically renumbered placeholder list, so the statement text and its
parameter positions never need to be reconstructed per request.
*/
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

// Params describes one search request. Empty-string fields and nil time
// pointers mean "no filter"; Page is 1-indexed and clamped to 1 by Search.
//
// Query is the residual, pre-tokenization query text (lowercased,
// trimmed, filters stripped) — it is handed to websearch_to_tsquery
// as-is so the database's own parser can resolve phrases and operators;
// it is deliberately not the Analyzer's token list.
type Params struct {
	Query        string     `json:"query"`
	HomeInstance string     `json:"home_instance"`
	Community    string     `json:"community,omitempty"`
	Author       string     `json:"author,omitempty"`
	Instance     string     `json:"instance,omitempty"`
	NSFW         bool       `json:"nsfw,omitempty"`
	Since        *time.Time `json:"since,omitempty"`
	Until        *time.Time `json:"until,omitempty"`
	Page         int        `json:"page"`
}

// Author is a post's creator as returned by a search result.
type Author struct {
	ActorID     string  `json:"actor_id"`
	Name        string  `json:"name"`
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// Community is a post's community as returned by a search result.
type Community struct {
	ActorID string  `json:"actor_id"`
	Name    string  `json:"name"`
	Title   *string `json:"title,omitempty"`
	Icon    *string `json:"icon,omitempty"`
}

// Post is one search result row, expressed from the caller's home
// instance: RemoteID is that instance's local numeric ID for the post,
// resolved via the lemmy_ids join rather than the federation ap_id.
type Post struct {
	ApID      string    `json:"ap_id"`
	RemoteID  int       `json:"remote_id"`
	Name      string    `json:"name"`
	Body      *string   `json:"body,omitempty"`
	Score     int       `json:"score"`
	NSFW      bool      `json:"nsfw"`
	Updated   time.Time `json:"updated"`
	Author    Author    `json:"author"`
	Community Community `json:"community"`
}

// Result is one page of search results plus pagination metadata.
type Result struct {
	Posts        []Post `json:"posts"`
	TotalResults int    `json:"total_results"`
	TotalPages   int    `json:"total_pages"`
}

// Engine executes ranked full-text search over the `posts` index.
type Engine struct {
	pool  *pgxpool.Pool
	cache *redis.Client
	log   *slog.Logger
}

// New wraps an already-connected pool and cache client.
func New(pool *pgxpool.Pool, cache *redis.Client, log *slog.Logger) *Engine {
	return &Engine{pool: pool, cache: cache, log: log}
}

// Search returns one page of ranked results for params, serving from the
// Redis response cache when a prior identical request is still warm.
func (e *Engine) Search(ctx context.Context, params Params) (Result, error) {
	if params.Page < 1 {
		params.Page = 1
	}

	key := cacheKey(params)

	if cached, ok := e.readCache(ctx, key); ok {
		return cached, nil
	}

	result, err := e.query(ctx, params)
	if err != nil {
		return Result{}, err
	}

	e.writeCache(ctx, key, result)
	return result, nil
}

// The lemmy_ids join is INNER, not optional: every result must be
// resolvable to a local numeric ID on the caller's home instance, which
// is what l.post_remote_id carries back (see schema.LemmyID).
const searchStatement = `
SELECT
	p.ap_id, l.post_remote_id, p.name, p.body, p.score, p.nsfw, p.updated,
	a.ap_id, a.name, a.display_name, a.avatar,
	c.ap_id, c.name, c.title, c.icon,
	count(*) OVER() AS total_count
FROM posts p
JOIN authors a ON a.ap_id = p.author_actor_id
JOIN communities c ON c.ap_id = p.community_ap_id
JOIN lemmy_ids l ON l.post_actor_id = p.ap_id AND l.instance_actor_id = $2
WHERE
	($1 = '' OR p.com_search @@ websearch_to_tsquery('english', $1))
	AND ($3 = '' OR c.ap_id LIKE $3 || '%')
	AND ($4 = '' OR c.ap_id = $4)
	AND ($5 = '' OR a.ap_id = $5)
	AND ($6::boolean OR NOT p.nsfw)
	AND ($7::timestamptz IS NULL OR p.updated >= $7)
	AND ($8::timestamptz IS NULL OR p.updated <= $8)
ORDER BY
	CASE WHEN $1 = '' THEN NULL
		-- 12 = 4 | 8: divide the rank by the mean harmonic distance
		-- between extents and by the number of unique words in the post.
		ELSE ts_rank_cd(p.com_search, websearch_to_tsquery('english', $1), 12)
	END DESC NULLS LAST,
	p.score DESC
LIMIT $9 OFFSET $10
`

func (e *Engine) query(ctx context.Context, params Params) (Result, error) {
	offset := (params.Page - 1) * constants.DefaultSearchPageSize

	rows, err := e.pool.Query(ctx, searchStatement,
		params.Query, params.HomeInstance, params.Instance, params.Community, params.Author,
		params.NSFW, params.Since, params.Until,
		constants.DefaultSearchPageSize, offset,
	)
	if err != nil {
		return Result{}, xerr.New(xerr.Database, "engine.search", err)
	}
	defer rows.Close()

	var posts []Post
	var total int
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ApID, &p.RemoteID, &p.Name, &p.Body, &p.Score, &p.NSFW, &p.Updated,
			&p.Author.ActorID, &p.Author.Name, &p.Author.DisplayName, &p.Author.Avatar,
			&p.Community.ActorID, &p.Community.Name, &p.Community.Title, &p.Community.Icon,
			&total,
		); err != nil {
			return Result{}, xerr.New(xerr.Database, "engine.search", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return Result{}, xerr.New(xerr.Database, "engine.search", err)
	}

	return Result{
		Posts:        posts,
		TotalResults: total,
		TotalPages:   totalPages(total, constants.DefaultSearchPageSize),
	}, nil
}

// totalPages reports how many pages of constants.DefaultSearchPageSize
// cover total results.
func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

// cacheKey hashes every field that can change the result set into a
// fixed-length Redis key.
func cacheKey(params Params) string {
	payload, _ := json.Marshal(params)
	sum := sha256.Sum256(payload)
	return constants.RedisPrefixSearchCache + hex.EncodeToString(sum[:])
}

func (e *Engine) readCache(ctx context.Context, key string) (Result, bool) {
	raw, err := e.cache.Get(ctx, key).Bytes()
	if err != nil {
		return Result{}, false
	}
	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, false
	}
	return result, true
}

func (e *Engine) writeCache(ctx context.Context, key string, result Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, key, payload, constants.SearchCacheTTL).Err(); err != nil {
		e.log.Warn("search_cache_write_failed", slog.Any("error", err))
	}
}
