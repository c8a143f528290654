// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rcmaehl/lemmysearch/internal/database/site"
	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/internal/platform/respond"
	"github.com/rcmaehl/lemmysearch/pkg/slice"
)

// InstanceLister is the subset of *site.Repository the HTTP surface
// depends on.
type InstanceLister interface {
	List(ctx context.Context) ([]site.Row, error)
}

// instanceDTO is the public shape of one known instance.
type instanceDTO struct {
	ActorID    string    `json:"actor_id"`
	Name       string    `json:"name"`
	LastUpdate time.Time `json:"last_update"`
}

// NewInstancesHandler returns the GET /instances handler: the set of
// federated instances this deployment has crawled at least once.
func NewInstancesHandler(sites InstanceLister) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		rows, err := sites.List(request.Context())
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		instances := slice.Map(rows, func(row site.Row) instanceDTO {
			return instanceDTO{ActorID: row.ActorID, Name: row.Name, LastUpdate: row.LastUpdate}
		})

		writer.Header().Set(constants.HeaderCacheControl, constants.CacheControlDaily)
		respond.OK(writer, instances)
	}
}
