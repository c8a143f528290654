// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"

	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

func TestUpsertStatement_ExcludesCursorColumnsFromConflictClause(t *testing.T) {
	assert.Contains(t, upsertStatement, "ON CONFLICT (actor_id) DO UPDATE SET")
	assert.Contains(t, upsertStatement, "name = excluded.name")
	assert.NotContains(t, upsertStatement, "last_post_page = excluded")
	assert.NotContains(t, upsertStatement, "last_comment_page = excluded")
}

func TestUpsertStatement_SeedsBothCursorsAtZero(t *testing.T) {
	assert.Contains(t, upsertStatement, "VALUES ($1, $2, 0, 0, $3)")
}

func TestClassify_NilErrorPassesThrough(t *testing.T) {
	assert.NoError(t, classify("site.get", nil))
}

func TestClassify_DeadlineExceededIsConnectionKind(t *testing.T) {
	err := classify("site.get", context.DeadlineExceeded)

	var classified *xerr.Error
	assert.True(t, errors.As(err, &classified))
	assert.Equal(t, xerr.Connection, classified.Kind)
}

func TestClassify_ClosedPoolIsConnectionKind(t *testing.T) {
	err := classify("site.list", pgxpool.ErrClosedPool)

	var classified *xerr.Error
	assert.True(t, errors.As(err, &classified))
	assert.Equal(t, xerr.Connection, classified.Kind)
}

func TestClassify_OtherErrorsAreDatabaseKind(t *testing.T) {
	err := classify("site.upsert", errors.New("constraint violation"))

	var classified *xerr.Error
	assert.True(t, errors.As(err, &classified))
	assert.Equal(t, xerr.Database, classified.Kind)
}
