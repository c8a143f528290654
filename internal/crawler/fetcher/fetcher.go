// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package fetcher binds one Lemmy instance hostname to an HTTP client and
exposes the four upstream calls a crawl pass needs: robots evaluation,
site metadata, federation peers, and paginated post listings.
*/
package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"

	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

// DefaultLimit is the page size requested from /api/v3/post/list. Fixed,
// not configurable: pairing it with sort=Old is what keeps paging stable.
const DefaultLimit = 50

// Fetcher issues the upstream HTTP calls for a single instance.
type Fetcher struct {
	baseURL string
	client  *http.Client
}

// New binds client to host. host is a bare domain (no scheme); requests
// are always issued over https.
func New(client *http.Client, host string) *Fetcher {
	return &Fetcher{baseURL: "https://" + host, client: client}
}

// NewWithBaseURL binds client to an already-complete base URL (scheme
// included). Used by tests to point a Fetcher at an httptest server.
func NewWithBaseURL(client *http.Client, baseURL string) *Fetcher {
	return &Fetcher{baseURL: baseURL, client: client}
}

func (f *Fetcher) url(path string, query url.Values) string {
	u := f.baseURL + path
	if query != nil && len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// CanCrawl fetches /robots.txt and evaluates whether userAgent may crawl
// path "/". A failure to fetch or parse robots.txt is treated as not
// permitted — crawling never proceeds on an unknown policy.
func (f *Fetcher) CanCrawl(ctx context.Context, userAgent string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url("/robots.txt", nil), nil)
	if err != nil {
		return false, xerr.New(xerr.Network, "fetcher.can_crawl", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return false, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return false, nil
	}

	return data.FindGroup(userAgent).Test("/"), nil
}

// Site fetches GET /api/v3/site.
func (f *Fetcher) Site(ctx context.Context, userAgent string) (SiteResponse, error) {
	var out SiteResponse
	err := f.fetchJSON(ctx, userAgent, "/api/v3/site", nil, &out)
	return out, err
}

// FederatedInstances fetches GET /api/v3/federated_instances.
func (f *Fetcher) FederatedInstances(ctx context.Context, userAgent string) (FederatedInstancesResponse, error) {
	var out FederatedInstancesResponse
	err := f.fetchJSON(ctx, userAgent, "/api/v3/federated_instances", nil, &out)
	return out, err
}

// Posts fetches one page (1-indexed) of GET /api/v3/post/list, sorted Old
// so that pagination is stable across crawl passes.
func (f *Fetcher) Posts(ctx context.Context, userAgent string, page int) ([]PostData, error) {
	query := url.Values{
		"type_": {"All"},
		"sort":  {"Old"},
		"limit": {fmt.Sprintf("%d", DefaultLimit)},
		"page":  {fmt.Sprintf("%d", page)},
	}

	var out PostListResponse
	if err := f.fetchJSON(ctx, userAgent, "/api/v3/post/list", query, &out); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// fetchJSON issues a GET request and decodes the JSON response into out.
// Transport failures and decode failures are both classified as
// [xerr.Network] — from the caller's point of view, both mean the page
// could not be read.
func (f *Fetcher) fetchJSON(ctx context.Context, userAgent, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url(path, query), nil)
	if err != nil {
		return xerr.New(xerr.Network, "fetcher.fetch:"+path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return xerr.New(xerr.Network, "fetcher.fetch:"+path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return xerr.New(xerr.Network, "fetcher.fetch:"+path,
			fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return xerr.New(xerr.Network, "fetcher.decode:"+path, err)
	}

	return nil
}
