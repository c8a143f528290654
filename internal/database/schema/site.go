// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "time"

// siteDescriptor describes the `sites` table: one row per known instance.
type siteDescriptor struct{}

// Site is the package-level [Descriptor] for the `sites` table.
var Site Descriptor = siteDescriptor{}

func (siteDescriptor) TableName() string { return "sites" }

func (siteDescriptor) Columns() []Column {
	return []Column{
		{Name: "actor_id", Type: "TEXT PRIMARY KEY"},
		{Name: "name", Type: "TEXT NOT NULL"},
		{Name: "last_post_page", Type: "INTEGER NOT NULL DEFAULT 0"},
		{Name: "last_comment_page", Type: "INTEGER NOT NULL DEFAULT 0"},
		{Name: "last_update", Type: "TIMESTAMPTZ NOT NULL"},
	}
}

func (siteDescriptor) Keys() []string { return []string{"actor_id"} }

// SiteRow is one in-memory `sites` row.
type SiteRow struct {
	ActorID         string
	Name            string
	LastPostPage    int
	LastCommentPage int
	LastUpdate      time.Time
}

// Values implements [Row].
func (r SiteRow) Values() []any {
	return []any{r.ActorID, r.Name, r.LastPostPage, r.LastCommentPage, r.LastUpdate}
}
