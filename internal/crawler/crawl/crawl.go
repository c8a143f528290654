// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package crawl drives one federated-instance crawl pass: robots evaluation,
site registration, peer discovery, and paginated post ingestion, resuming
from wherever the instance's cursor last left off.

A pass is cancellable only at page boundaries. The context passed to each
HTTP fetch is the live, cancellable pass context — an in-flight fetch can
be aborted. The context passed to Ingest is derived with
[context.WithoutCancel] and its own timeout, so a database write already
in flight runs to completion even if the outer pass was cancelled.
*/
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rcmaehl/lemmysearch/internal/crawler/fetcher"
	"github.com/rcmaehl/lemmysearch/internal/database/site"
	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/pkg/slice"
)

// Ingestor is the subset of *ingest.Ingestor a pass depends on.
type Ingestor interface {
	Ingest(ctx context.Context, instanceActorID string, posts []fetcher.PostData) error
}

// Sites is the subset of *site.Repository a pass depends on.
type Sites interface {
	Upsert(ctx context.Context, actorID, name string) error
	Get(ctx context.Context, actorID string) (site.Row, bool, error)
	SetLastPostPage(ctx context.Context, actorID string, page int) error
}

// instanceFetcher is the subset of *fetcher.Fetcher a pass depends on.
// Abstracted so a pass can be driven in tests without a real instance.
type instanceFetcher interface {
	CanCrawl(ctx context.Context, userAgent string) (bool, error)
	Site(ctx context.Context, userAgent string) (fetcher.SiteResponse, error)
	FederatedInstances(ctx context.Context, userAgent string) (fetcher.FederatedInstancesResponse, error)
	Posts(ctx context.Context, userAgent string, page int) ([]fetcher.PostData, error)
}

// Crawler holds the dependencies shared by every pass, plus the
// per-instance pacing state a pass needs across its page loop.
type Crawler struct {
	httpClient *http.Client
	userAgent  string
	ingestor   Ingestor
	sites      Sites
	backoff    BackoffStore
	backoffTTL time.Duration
	log        *slog.Logger

	// newFetcher builds the instanceFetcher for a given host. Overridable
	// in tests to drive a pass without a real instance.
	newFetcher func(host string) instanceFetcher

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New constructs a Crawler. backoffTTL is how long a failed instance is
// skipped by subsequent passes.
func New(httpClient *http.Client, userAgent string, ingestor Ingestor, sites Sites, backoff BackoffStore, backoffTTL time.Duration, log *slog.Logger) *Crawler {
	c := &Crawler{
		httpClient: httpClient,
		userAgent:  userAgent,
		ingestor:   ingestor,
		sites:      sites,
		backoff:    backoff,
		backoffTTL: backoffTTL,
		log:        log,
		limiters:   make(map[string]*rate.Limiter),
	}
	c.newFetcher = func(host string) instanceFetcher { return fetcher.New(httpClient, host) }
	return c
}

func (c *Crawler) limiterFor(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(constants.CrawlPacingRPS), constants.CrawlPacingBurst)
		c.limiters[host] = l
	}
	return l
}

// RunPass fetches and ingests every post page from host that has not yet
// been ingested, then returns the federation peers the instance reports —
// linked or allowed, minus blocked — for the caller to fold into its
// known-instance set.
//
// A nil error with a nil peer slice means the instance was skipped (robots
// disallow, or it is still in its backoff window), not that it was
// crawled with zero peers.
func (c *Crawler) RunPass(ctx context.Context, host string) ([]string, error) {
	backingOff, err := c.backoff.IsBackingOff(ctx, host)
	if err != nil {
		c.log.Warn("crawl_backoff_check_failed", slog.String("instance", host), slog.Any("error", err))
	}
	if backingOff {
		c.log.Debug("crawl_instance_backing_off", slog.String("instance", host))
		return nil, nil
	}

	f := c.newFetcher(host)

	allowed, err := f.CanCrawl(ctx, c.userAgent)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: robots check: %w", host, err)
	}
	if !allowed {
		c.log.Debug("crawl_instance_disallowed_by_robots", slog.String("instance", host))
		return nil, nil
	}

	siteResp, err := f.Site(ctx, c.userAgent)
	if err != nil {
		c.markBackoff(ctx, host)
		return nil, fmt.Errorf("crawl %s: fetch site: %w", host, err)
	}
	actorID := siteResp.SiteView.Site.ActorID
	name := siteResp.SiteView.Site.Name

	if err := c.sites.Upsert(ctx, actorID, name); err != nil {
		return nil, fmt.Errorf("crawl %s: upsert site: %w", host, err)
	}

	peers := c.discoverPeers(ctx, f, host)
	if peers == nil {
		peers = []string{}
	}

	if err := c.ingestPosts(ctx, f, host, actorID); err != nil {
		c.markBackoff(ctx, host)
		return peers, fmt.Errorf("crawl %s: ingest posts: %w", host, err)
	}

	return peers, nil
}

func (c *Crawler) discoverPeers(ctx context.Context, f instanceFetcher, host string) []string {
	fed, err := f.FederatedInstances(ctx, c.userAgent)
	if err != nil {
		c.log.Warn("crawl_federated_instances_failed", slog.String("instance", host), slog.Any("error", err))
		return nil
	}

	blocked := make(map[string]bool, len(fed.FederatedInstances.Blocked))
	for _, inst := range fed.FederatedInstances.Blocked {
		blocked[inst.Domain] = true
	}

	candidates := append(append([]fetcher.Instance{}, fed.FederatedInstances.Linked...), fed.FederatedInstances.Allowed...)

	domains := slice.Map(candidates, func(inst fetcher.Instance) string { return inst.Domain })
	return slice.Filter(domains, func(domain string) bool {
		return domain != "" && domain != host && !blocked[domain]
	})
}

// ingestPosts walks pages starting from the instance's persisted cursor,
// checking for cancellation only at the top of each iteration.
func (c *Crawler) ingestPosts(ctx context.Context, f instanceFetcher, host, actorID string) error {
	page := 1
	if row, found, err := c.sites.Get(ctx, actorID); err == nil && found && row.LastPostPage > 0 {
		page = row.LastPostPage
	}

	limiter := c.limiterFor(host)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

		posts, err := f.Posts(ctx, c.userAgent, page)
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			return nil
		}

		ingestCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.CrawlIngestTimeout)
		err = c.ingestor.Ingest(ingestCtx, actorID, posts)
		cancel()
		if err != nil {
			return err
		}

		page++
		if err := c.sites.SetLastPostPage(context.WithoutCancel(ctx), actorID, page); err != nil {
			return err
		}

		if len(posts) < fetcher.DefaultLimit {
			return nil
		}
	}
}

func (c *Crawler) markBackoff(ctx context.Context, host string) {
	if err := c.backoff.MarkBackingOff(context.WithoutCancel(ctx), host, c.backoffTTL); err != nil {
		c.log.Warn("crawl_mark_backoff_failed", slog.String("instance", host), slog.Any("error", err))
	}
}
