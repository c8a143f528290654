// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP/instance tracking TTLs.
  - Crawl: Pagination size, backoff, and Redis key prefixes for the crawler.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "lemmysearch-api"
	AppVersion = "0.1.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Crawl

const (
	// PostPageSize is the `limit` sent on every /api/v3/post/list request.
	PostPageSize = 50

	// DefaultFetchTimeout bounds every upstream HTTP request made by the Fetcher.
	DefaultFetchTimeout = 15 * time.Second

	// RedisPrefixBackoff namespaces the per-instance crawl backoff markers.
	RedisPrefixBackoff = "crawl:backoff:"

	// RedisPrefixSearchCache namespaces cached /search responses.
	RedisPrefixSearchCache = "search:cache:"

	// SearchCacheTTL matches the /search endpoint's Cache-Control max-age.
	SearchCacheTTL = 24 * time.Hour

	// CrawlPacingRPS bounds how many requests per second a single Crawler
	// issues against one instance, independent of how many instances run
	// concurrently.
	CrawlPacingRPS = 2.0

	// CrawlPacingBurst is the token bucket burst size backing CrawlPacingRPS.
	CrawlPacingBurst = 4

	// CrawlIngestTimeout bounds Ingestor.Ingest once a page has been
	// fetched. It runs on a context.WithoutCancel derivative of the pass
	// context, so an outer cancellation cannot abort it mid-write.
	CrawlIngestTimeout = 30 * time.Second

	// DefaultBackoffClearance is how long a failed instance is skipped
	// before the next pass retries it, when CRAWLER_BACKOFF cannot be
	// parsed as a duration.
	DefaultBackoffClearance = 10 * time.Minute

	// DefaultSearchPageSize is the number of posts returned per /search page.
	DefaultSearchPageSize = 20
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderCacheControl  = "Cache-Control"
)

// # Cache-Control Values

const (
	CacheControlDaily   = "public, max-age=86400"
	CacheControlNoStore = "no-store"
)
