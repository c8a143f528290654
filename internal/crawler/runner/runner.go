// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package runner supervises scheduled crawl passes across every known
federated instance, growing its known-instance set as passes discover new
peers, and bounding how many passes run concurrently.
*/
package runner

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rcmaehl/lemmysearch/internal/database/site"
)

// Pass drives one crawl pass against host and returns any peer domains
// discovered via federation, for the Runner to fold into its known set.
type Pass func(ctx context.Context, host string) ([]string, error)

// Sites is the subset of *site.Repository the Runner uses to seed its
// known-instance set at startup.
type Sites interface {
	List(ctx context.Context) ([]site.Row, error)
}

// Config tunes the supervisor's scheduling.
type Config struct {
	// SeedHost is the first instance domain crawled, used even before the
	// sites table has any rows.
	SeedHost string

	// Interval is the minimum time between two full scheduled passes.
	Interval time.Duration

	// MaxParallel bounds how many instance passes run concurrently.
	MaxParallel int
}

// Runner supervises a bounded-concurrency set of per-instance crawl
// passes on a fixed schedule, expanding its known-instance set as peers
// are discovered.
type Runner struct {
	cfg   Config
	pass  Pass
	sites Sites
	log   *slog.Logger

	mu    sync.Mutex
	known map[string]struct{}

	cancel   context.CancelFunc
	loopDone chan struct{}
}

// New constructs a Runner seeded with cfg.SeedHost. Start must be called
// to begin scheduling passes.
func New(cfg Config, pass Pass, sites Sites, log *slog.Logger) *Runner {
	if cfg.MaxParallel < 1 {
		cfg.MaxParallel = 1
	}
	known := map[string]struct{}{}
	if cfg.SeedHost != "" {
		known[cfg.SeedHost] = struct{}{}
	}
	return &Runner{
		cfg:   cfg,
		pass:  pass,
		sites: sites,
		log:   log,
		known: known,
	}
}

// Start launches the scheduling loop as a background goroutine and
// returns. The loop seeds the known-instance set from the sites table,
// runs one tick immediately, and then ticks every Interval. Start is not
// re-entrant; call it once.
func (r *Runner) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.loopDone = make(chan struct{})

	go r.loop(loopCtx)
}

func (r *Runner) loop(ctx context.Context) {
	defer close(r.loopDone)

	r.seedFromDatabase(ctx)
	r.runTick(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runTick(ctx)
		}
	}
}

// Stop cancels the scheduling loop's context and blocks until the
// in-flight tick's passes have each reached their next page boundary and
// returned.
func (r *Runner) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.loopDone
}

// TriggerNow runs one extra tick over the known instance set immediately,
// independent of the periodic schedule. Used by the development-only
// /crawl route.
func (r *Runner) TriggerNow() {
	go r.runTick(context.Background())
}

func (r *Runner) seedFromDatabase(ctx context.Context) {
	rows, err := r.sites.List(ctx)
	if err != nil {
		r.log.Warn("runner_seed_from_database_failed", slog.Any("error", err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		if host := hostFromActorID(row.ActorID); host != "" {
			r.known[host] = struct{}{}
		}
	}
}

func (r *Runner) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	hosts := make([]string, 0, len(r.known))
	for h := range r.known {
		hosts = append(hosts, h)
	}
	return hosts
}

func (r *Runner) addDiscovered(hosts []string) {
	if len(hosts) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range hosts {
		r.known[h] = struct{}{}
	}
}

func (r *Runner) runTick(ctx context.Context) {
	hosts := r.snapshot()
	r.log.Info("crawl_tick_started", slog.Int("instances", len(hosts)))

	var g errgroup.Group
	g.SetLimit(r.cfg.MaxParallel)

	for _, host := range hosts {
		host := host
		g.Go(func() error {
			discovered, err := r.pass(ctx, host)
			if err != nil {
				r.log.Error("crawl_pass_failed", slog.String("instance", host), slog.Any("error", err))
				return nil
			}
			r.addDiscovered(discovered)
			return nil
		})
	}

	_ = g.Wait()
}

func hostFromActorID(actorID string) string {
	u, err := url.Parse(actorID)
	if err != nil {
		return ""
	}
	return u.Host
}
