// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetcher_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcmaehl/lemmysearch/internal/crawler/fetcher"
	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

/*
TestCanCrawl_Allowed verifies a permissive robots.txt allows the
configured user agent.
*/
func TestCanCrawl_Allowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	}))
	defer server.Close()

	f := fetcher.NewWithBaseURL(server.Client(), server.URL)

	allowed, err := f.CanCrawl(context.Background(), "test-agent")
	require.NoError(t, err)
	assert.True(t, allowed)
}

/*
TestCanCrawl_Disallowed verifies a disallow-all robots.txt is respected.
*/
func TestCanCrawl_Disallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}))
	defer server.Close()

	f := fetcher.NewWithBaseURL(server.Client(), server.URL)

	allowed, err := f.CanCrawl(context.Background(), "test-agent")
	require.NoError(t, err)
	assert.False(t, allowed)
}

/*
TestCanCrawl_FetchFailureIsNotPermitted verifies that a robots.txt we
cannot even fetch is treated as "not permitted", not as an error.
*/
func TestCanCrawl_FetchFailureIsNotPermitted(t *testing.T) {
	f := fetcher.NewWithBaseURL(http.DefaultClient, "http://127.0.0.1:1")

	allowed, err := f.CanCrawl(context.Background(), "test-agent")
	require.NoError(t, err)
	assert.False(t, allowed)
}

/*
TestSite verifies the site descriptor is decoded from the nested
site_view.site JSON shape.
*/
func TestSite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/site", r.URL.Path)
		w.Write([]byte(`{"site_view":{"site":{"actor_id":"https://example.org/","name":"Example"}}}`))
	}))
	defer server.Close()

	f := fetcher.NewWithBaseURL(server.Client(), server.URL)

	site, err := f.Site(context.Background(), "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/", site.SiteView.Site.ActorID)
	assert.Equal(t, "Example", site.SiteView.Site.Name)
}

/*
TestPosts_RequestsSortOldAndConfiguredPage verifies the post-list query
string carries the stable-paging parameters.
*/
func TestPosts_RequestsSortOldAndConfiguredPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "All", r.URL.Query().Get("type_"))
		assert.Equal(t, "Old", r.URL.Query().Get("sort"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		w.Write([]byte(`{"posts":[{"post":{"id":1,"ap_id":"https://example.org/post/1","name":"hi","nsfw":false,"published":"2026-01-01T00:00:00Z"},"creator":{"actor_id":"https://example.org/u/a","name":"a"},"community":{"actor_id":"https://example.org/c/c","name":"c"},"counts":{"score":5}}]}`))
	}))
	defer server.Close()

	f := fetcher.NewWithBaseURL(server.Client(), server.URL)

	posts, err := f.Posts(context.Background(), "test-agent", 3)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "https://example.org/post/1", posts[0].Post.ApID)
	assert.Equal(t, 5, posts[0].Counts.Score)
}

/*
TestPosts_NonOKStatusIsNetworkError verifies a non-2xx response surfaces
as a Network-classified error rather than a decode panic.
*/
func TestPosts_NonOKStatusIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := fetcher.NewWithBaseURL(server.Client(), server.URL)

	_, err := f.Posts(context.Background(), "test-agent", 1)
	require.Error(t, err)
	assert.True(t, xerr.Is(err, xerr.Network))
}
