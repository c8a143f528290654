// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/internal/platform/respond"
)

// NewVersionHandler returns the GET /version handler: a cacheable,
// unauthenticated identifier of the running build.
func NewVersionHandler() http.HandlerFunc {
	return func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlDaily)
		respond.OK(writer, map[string]string{
			constants.FieldApp:     constants.AppName,
			constants.FieldVersion: constants.AppVersion,
		})
	}
}
