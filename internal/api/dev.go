// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
)

// crawlTrigger is the subset of *runner.Runner the development-only
// /crawl route depends on. Declared structurally so this package need not
// import internal/crawler/runner.
type crawlTrigger interface {
	TriggerNow()
}

// NewHeartbeatHandler returns the GET /heartbeat handler used by local
// development tooling to confirm the API process is responsive.
func NewHeartbeatHandler() http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("Ready"))
	}
}

// NewCrawlHandler returns the GET /crawl handler: triggers an immediate
// crawl tick outside the periodic schedule. Mounted only when
// config.DevelopmentMode is set.
func NewCrawlHandler(trigger crawlTrigger) http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		trigger.TriggerNow()
		writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlNoStore)
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write([]byte("Started"))
	}
}
