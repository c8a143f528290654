// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/internal/platform/respond"
	"github.com/rcmaehl/lemmysearch/internal/search/engine"
	"github.com/rcmaehl/lemmysearch/internal/search/queryparser"
	"github.com/rcmaehl/lemmysearch/pkg/convert"
	"github.com/rcmaehl/lemmysearch/pkg/pointer"
)

// Searcher is the subset of *engine.Engine the HTTP surface depends on.
type Searcher interface {
	Search(ctx context.Context, params engine.Params) (engine.Result, error)
}

// searchResponse is the GET /search envelope. original_query_terms and
// time_taken are cross-cutting to the HTTP surface, not the search
// engine's business result, so they're assembled here rather than being
// carried on engine.Result.
type searchResponse struct {
	OriginalQueryTerms []string      `json:"original_query_terms"`
	Posts              []engine.Post `json:"posts"`
	TotalResults       int           `json:"total_results"`
	TotalPages         int           `json:"total_pages"`
	TimeTaken          time.Duration `json:"time_taken"`
}

// NewSearchHandler returns the GET /search handler: extracts instance:/
// community:/author: filters and normalized tokens from the raw query,
// runs a ranked full-text search, and returns one page of results.
func NewSearchHandler(searcher Searcher) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		start := time.Now()

		values := request.URL.Query()

		parsed := queryparser.Parse(values.Get("query"))

		params := engine.Params{
			Query:        parsed.Residual,
			HomeInstance: queryparser.CanonicalInstance(values.Get("preferred_instance")),
			Community:    parsed.Filters.Community,
			Author:       parsed.Filters.Author,
			Instance:     parsed.Filters.Instance,
			NSFW:         convert.ToBool(values.Get("nsfw")),
			Since:        parseTimeParam(values.Get("since")),
			Until:        parseTimeParam(values.Get("until")),
			Page:         convert.ToIntD(values.Get("page"), 1),
		}

		result, err := searcher.Search(request.Context(), params)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlDaily)
		respond.OK(writer, searchResponse{
			OriginalQueryTerms: parsed.Tokens,
			Posts:              result.Posts,
			TotalResults:       result.TotalResults,
			TotalPages:         result.TotalPages,
			TimeTaken:          time.Since(start),
		})
	}
}

// parseTimeParam parses an RFC 3339 timestamp, returning nil (no filter)
// on an empty or malformed value rather than failing the whole request.
func parseTimeParam(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return pointer.To(t)
}
