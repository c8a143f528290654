// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fetcher

// SiteResponse is the subset of a Lemmy instance's GET /api/v3/site
// response this crawler needs.
type SiteResponse struct {
	SiteView struct {
		Site struct {
			ActorID string `json:"actor_id"`
			Name    string `json:"name"`
		} `json:"site"`
	} `json:"site_view"`
}

// Instance describes one federated peer as reported by
// GET /api/v3/federated_instances.
type Instance struct {
	ID       int    `json:"id"`
	Domain   string `json:"domain"`
	Software string `json:"software,omitempty"`
}

// FederatedInstancesResponse groups peers by federation relationship.
type FederatedInstancesResponse struct {
	FederatedInstances struct {
		Linked  []Instance `json:"linked"`
		Allowed []Instance `json:"allowed"`
		Blocked []Instance `json:"blocked"`
	} `json:"federated_instances"`
}

// Author is the creator of a post, as embedded in a post-list view.
type Author struct {
	ActorID     string  `json:"actor_id"`
	Name        string  `json:"name"`
	DisplayName *string `json:"display_name,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// Community is the community a post belongs to, as embedded in a
// post-list view.
type Community struct {
	ActorID string  `json:"actor_id"`
	Name    string  `json:"name"`
	Title   *string `json:"title,omitempty"`
	Icon    *string `json:"icon,omitempty"`
}

// Post is the post object nested in a post-list view.
type Post struct {
	ID      int     `json:"id"`
	ApID    string  `json:"ap_id"`
	Name    string  `json:"name"`
	Body    *string `json:"body,omitempty"`
	NSFW    bool    `json:"nsfw"`
	Updated *string `json:"updated,omitempty"`
	Created string  `json:"published"`
}

// PostData is one entry of a post-list response: a post together with its
// creator, community, and aggregated score.
type PostData struct {
	Post      Post      `json:"post"`
	Creator   Author    `json:"creator"`
	Community Community `json:"community"`
	Counts    struct {
		Score int `json:"score"`
	} `json:"counts"`
}

// PostListResponse is the body of GET /api/v3/post/list.
type PostListResponse struct {
	Posts []PostData `json:"posts"`
}
