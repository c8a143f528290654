// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ingest derives the row sets a batch of fetched posts contributes
to every table, and drives the ordered upsert sequence that keeps
foreign-key closure under concurrent, uncoordinated crawlers.
*/
package ingest

import (
	"context"
	"time"

	"github.com/rcmaehl/lemmysearch/internal/crawler/analyzer"
	"github.com/rcmaehl/lemmysearch/internal/crawler/fetcher"
	"github.com/rcmaehl/lemmysearch/internal/database/schema"
	"github.com/rcmaehl/lemmysearch/pkg/uuid"
)

// Store is the subset of *store.Store the Ingestor depends on.
type Store interface {
	BulkUpsert(ctx context.Context, d schema.Descriptor, rows []schema.Row) error
}

// Ingestor derives and persists the row sets contributed by a batch of
// posts fetched from one instance.
type Ingestor struct {
	store Store
}

// New returns an Ingestor backed by store.
func New(store Store) *Ingestor {
	return &Ingestor{store: store}
}

// Ingest derives authors, communities, posts, lemmy_ids, words, and xrefs
// from posts (as seen from instanceActorID) and upserts them in the order
// required by foreign-key closure: authors, communities, posts,
// lemmy_ids, words, xrefs. Each step is one BulkUpsert call; a failure at
// any step aborts the remaining steps and is returned to the caller.
func (i *Ingestor) Ingest(ctx context.Context, instanceActorID string, posts []fetcher.PostData) error {
	authors := make(map[string]schema.AuthorRow)
	communities := make(map[string]schema.CommunityRow)
	postRows := make(map[string]schema.PostRow)
	lemmyIDs := make(map[string]schema.LemmyIDRow)
	words := make(map[string]schema.WordRow)
	xrefs := make(map[string]schema.SearchRow)

	for _, p := range posts {
		authors[p.Creator.ActorID] = schema.AuthorRow{
			ActorID:     p.Creator.ActorID,
			Name:        p.Creator.Name,
			DisplayName: p.Creator.DisplayName,
			Avatar:      p.Creator.Avatar,
		}

		communities[p.Community.ActorID] = schema.CommunityRow{
			ActorID: p.Community.ActorID,
			Name:    p.Community.Name,
			Title:   p.Community.Title,
			Icon:    p.Community.Icon,
		}

		postRows[p.Post.ApID] = schema.PostRow{
			ApID:          p.Post.ApID,
			AuthorActorID: p.Creator.ActorID,
			CommunityApID: p.Community.ActorID,
			Name:          p.Post.Name,
			Body:          p.Post.Body,
			Score:         p.Counts.Score,
			NSFW:          p.Post.NSFW,
			Updated:       postUpdatedTime(p.Post),
		}

		lemmyKey := p.Post.ApID + "|" + instanceActorID
		lemmyIDs[lemmyKey] = schema.LemmyIDRow{
			PostActorID:     p.Post.ApID,
			InstanceActorID: instanceActorID,
			PostRemoteID:    p.Post.ID,
		}

		text := p.Post.Name
		if p.Post.Body != nil {
			text += " " + *p.Post.Body
		}

		for _, term := range analyzer.Analyze(text) {
			id := uuid.WordID(term)
			words[term] = schema.WordRow{ID: id, Word: term}
			xrefs[id+"|"+p.Post.ApID] = schema.SearchRow{WordID: id, PostApID: p.Post.ApID}
		}
	}

	steps := []struct {
		descriptor schema.Descriptor
		rows       []schema.Row
	}{
		{schema.Author, toRows(authors)},
		{schema.Community, toRows(communities)},
		{schema.Post, toRows(postRows)},
		{schema.LemmyID, toRows(lemmyIDs)},
		{schema.Word, toRows(words)},
		{schema.Search, toRows(xrefs)},
	}

	for _, step := range steps {
		if err := i.store.BulkUpsert(ctx, step.descriptor, step.rows); err != nil {
			return err
		}
	}

	return nil
}

func toRows[T schema.Row](set map[string]T) []schema.Row {
	rows := make([]schema.Row, 0, len(set))
	for _, v := range set {
		rows = append(rows, v)
	}
	return rows
}

// postUpdatedTime resolves a post's last-modified timestamp, falling
// back to its creation time when it has never been edited. An
// unparsable timestamp yields the zero time rather than aborting the
// batch — a malformed field from one upstream post must not poison the
// rest of the page.
func postUpdatedTime(p fetcher.Post) time.Time {
	if p.Updated != nil {
		if parsed, err := time.Parse(time.RFC3339, *p.Updated); err == nil {
			return parsed
		}
	}
	parsed, _ := time.Parse(time.RFC3339, p.Created)
	return parsed
}
