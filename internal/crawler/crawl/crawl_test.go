// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crawl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmaehl/lemmysearch/internal/crawler/fetcher"
	"github.com/rcmaehl/lemmysearch/internal/database/site"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeFetcher struct {
	canCrawl    bool
	canCrawlErr error
	siteResp    fetcher.SiteResponse
	siteErr     error
	fedResp     fetcher.FederatedInstancesResponse
	fedErr      error
	pages       map[int][]fetcher.PostData
}

func (f *fakeFetcher) CanCrawl(context.Context, string) (bool, error) { return f.canCrawl, f.canCrawlErr }
func (f *fakeFetcher) Site(context.Context, string) (fetcher.SiteResponse, error) {
	return f.siteResp, f.siteErr
}
func (f *fakeFetcher) FederatedInstances(context.Context, string) (fetcher.FederatedInstancesResponse, error) {
	return f.fedResp, f.fedErr
}
func (f *fakeFetcher) Posts(_ context.Context, _ string, page int) ([]fetcher.PostData, error) {
	return f.pages[page], nil
}

type fakeIngestor struct {
	calls []string
	err   error
}

func (i *fakeIngestor) Ingest(_ context.Context, instanceActorID string, _ []fetcher.PostData) error {
	i.calls = append(i.calls, instanceActorID)
	return i.err
}

type fakeSites struct {
	upserted map[string]string
	rows     map[string]site.Row
	pages    map[string]int
}

func newFakeSites() *fakeSites {
	return &fakeSites{upserted: map[string]string{}, rows: map[string]site.Row{}, pages: map[string]int{}}
}

func (s *fakeSites) Upsert(_ context.Context, actorID, name string) error {
	s.upserted[actorID] = name
	return nil
}
func (s *fakeSites) Get(_ context.Context, actorID string) (site.Row, bool, error) {
	row, ok := s.rows[actorID]
	return row, ok, nil
}
func (s *fakeSites) SetLastPostPage(_ context.Context, actorID string, page int) error {
	s.pages[actorID] = page
	return nil
}

type fakeBackoff struct {
	backingOff map[string]bool
	marked     []string
}

func newFakeBackoff() *fakeBackoff {
	return &fakeBackoff{backingOff: map[string]bool{}}
}

func (b *fakeBackoff) IsBackingOff(_ context.Context, host string) (bool, error) {
	return b.backingOff[host], nil
}
func (b *fakeBackoff) MarkBackingOff(_ context.Context, host string, _ time.Duration) error {
	b.marked = append(b.marked, host)
	return nil
}

func newTestCrawler(f instanceFetcher, ing Ingestor, sites Sites, backoff BackoffStore) *Crawler {
	c := New(nil, "test-agent", ing, sites, backoff, time.Minute, discardLogger())
	c.newFetcher = func(string) instanceFetcher { return f }
	return c
}

/*
TestRunPass_SkipsWhenBackingOff verifies an instance still within its
backoff window is skipped without issuing any fetch.
*/
func TestRunPass_SkipsWhenBackingOff(t *testing.T) {
	backoff := newFakeBackoff()
	backoff.backingOff["dead.example"] = true

	sites := newFakeSites()
	c := newTestCrawler(&fakeFetcher{canCrawl: true}, &fakeIngestor{}, sites, backoff)

	peers, err := c.RunPass(context.Background(), "dead.example")
	require.NoError(t, err)
	assert.Nil(t, peers)
	assert.Empty(t, sites.upserted)
}

/*
TestRunPass_SkipsWhenRobotsDisallow verifies a disallowing robots.txt
prevents the instance from being registered or ingested.
*/
func TestRunPass_SkipsWhenRobotsDisallow(t *testing.T) {
	sites := newFakeSites()
	c := newTestCrawler(&fakeFetcher{canCrawl: false}, &fakeIngestor{}, sites, newFakeBackoff())

	peers, err := c.RunPass(context.Background(), "closed.example")
	require.NoError(t, err)
	assert.Nil(t, peers)
	assert.Empty(t, sites.upserted)
}

/*
TestRunPass_IngestsPagesUntilShortPage verifies the page loop stops as
soon as a page returns fewer posts than the fixed page size, and that the
cursor is advanced past every ingested page.
*/
func TestRunPass_IngestsPagesUntilShortPage(t *testing.T) {
	f := &fakeFetcher{
		canCrawl: true,
		siteResp: siteResponse("https://origin.example", "Origin"),
		pages: map[int][]fetcher.PostData{
			1: fullPage(fetcher.DefaultLimit),
			2: fullPage(3),
		},
	}
	sites := newFakeSites()
	ingestor := &fakeIngestor{}

	c := newTestCrawler(f, ingestor, sites, newFakeBackoff())

	peers, err := c.RunPass(context.Background(), "origin.example")
	require.NoError(t, err)
	assert.Empty(t, peers)
	assert.Equal(t, []string{"https://origin.example", "https://origin.example"}, ingestor.calls)
	assert.Equal(t, 3, sites.pages["https://origin.example"])
}

/*
TestRunPass_ResumesFromPersistedCursor verifies a pass starts from the
instance's stored last_post_page rather than page 1.
*/
func TestRunPass_ResumesFromPersistedCursor(t *testing.T) {
	f := &fakeFetcher{
		canCrawl: true,
		siteResp: siteResponse("https://origin.example", "Origin"),
		pages: map[int][]fetcher.PostData{
			4: fullPage(1),
		},
	}
	sites := newFakeSites()
	sites.rows["https://origin.example"] = site.Row{ActorID: "https://origin.example", LastPostPage: 4}
	ingestor := &fakeIngestor{}

	c := newTestCrawler(f, ingestor, sites, newFakeBackoff())

	_, err := c.RunPass(context.Background(), "origin.example")
	require.NoError(t, err)
	assert.Equal(t, 5, sites.pages["https://origin.example"])
}

/*
TestRunPass_MarksBackoffOnIngestFailure verifies a database failure during
ingestion marks the instance for backoff and surfaces the error.
*/
func TestRunPass_MarksBackoffOnIngestFailure(t *testing.T) {
	f := &fakeFetcher{
		canCrawl: true,
		siteResp: siteResponse("https://origin.example", "Origin"),
		pages:    map[int][]fetcher.PostData{1: fullPage(1)},
	}
	backoff := newFakeBackoff()
	ingestor := &fakeIngestor{err: errors.New("database unavailable")}

	c := newTestCrawler(f, ingestor, newFakeSites(), backoff)

	_, err := c.RunPass(context.Background(), "origin.example")
	assert.Error(t, err)
	assert.Contains(t, backoff.marked, "origin.example")
}

/*
TestRunPass_PeerDiscoveryExcludesBlockedAndSelf verifies discovered peers
drop blocked instances and the instance's own host.
*/
func TestRunPass_PeerDiscoveryExcludesBlockedAndSelf(t *testing.T) {
	f := &fakeFetcher{
		canCrawl: true,
		siteResp: siteResponse("https://origin.example", "Origin"),
		pages:    map[int][]fetcher.PostData{},
	}
	f.fedResp.FederatedInstances.Linked = []fetcher.Instance{
		{Domain: "peer-a.example"}, {Domain: "origin.example"}, {Domain: "blocked.example"},
	}
	f.fedResp.FederatedInstances.Blocked = []fetcher.Instance{{Domain: "blocked.example"}}

	c := newTestCrawler(f, &fakeIngestor{}, newFakeSites(), newFakeBackoff())

	peers, err := c.RunPass(context.Background(), "origin.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"peer-a.example"}, peers)
}

func siteResponse(actorID, name string) fetcher.SiteResponse {
	var resp fetcher.SiteResponse
	resp.SiteView.Site.ActorID = actorID
	resp.SiteView.Site.Name = name
	return resp
}

func fullPage(n int) []fetcher.PostData {
	posts := make([]fetcher.PostData, n)
	for i := range posts {
		posts[i] = fetcher.PostData{
			Post: fetcher.Post{ApID: "post", Name: "n", Created: "2026-01-01T00:00:00Z"},
		}
	}
	return posts
}
