// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// lemmyIDDescriptor describes the `lemmy_ids` table: records that a given
// post is visible on a given instance under a given numeric ID.
type lemmyIDDescriptor struct{}

// LemmyID is the package-level [Descriptor] for the `lemmy_ids` table.
var LemmyID Descriptor = lemmyIDDescriptor{}

func (lemmyIDDescriptor) TableName() string { return "lemmy_ids" }

func (lemmyIDDescriptor) Columns() []Column {
	return []Column{
		{Name: "post_actor_id", Type: "TEXT NOT NULL REFERENCES posts(ap_id)"},
		{Name: "instance_actor_id", Type: "TEXT NOT NULL"},
		{Name: "post_remote_id", Type: "INTEGER NOT NULL"},
	}
}

func (lemmyIDDescriptor) Keys() []string {
	return []string{"post_actor_id", "instance_actor_id"}
}

// LemmyIDRow is one in-memory `lemmy_ids` row.
type LemmyIDRow struct {
	PostActorID     string
	InstanceActorID string
	PostRemoteID    int
}

// Values implements [Row].
func (r LemmyIDRow) Values() []any {
	return []any{r.PostActorID, r.InstanceActorID, r.PostRemoteID}
}
