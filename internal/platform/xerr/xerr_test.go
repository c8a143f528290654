// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package xerr_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcmaehl/lemmysearch/internal/platform/xerr"
)

/*
TestNew_NilErrIsNil verifies that wrapping a nil error yields nil.
*/
func TestNew_NilErrIsNil(t *testing.T) {
	assert.NoError(t, xerr.New(xerr.Database, "op", nil))
}

/*
TestIs_MatchesKind verifies that Is() correctly classifies wrapped errors.
*/
func TestIs_MatchesKind(t *testing.T) {
	err := xerr.New(xerr.Network, "fetch_posts", errors.New("boom"))

	assert.True(t, xerr.Is(err, xerr.Network))
	assert.False(t, xerr.Is(err, xerr.Database))
	assert.Equal(t, xerr.Network, xerr.KindOf(err))
}

/*
TestKindOf_UnknownForPlainError verifies an unwrapped error classifies as Unknown.
*/
func TestKindOf_UnknownForPlainError(t *testing.T) {
	assert.Equal(t, xerr.Unknown, xerr.KindOf(errors.New("plain")))
}

/*
TestError_Unwrap verifies the cause chain is traversable via errors.Is.
*/
func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := xerr.New(xerr.Database, "bulk_upsert", cause)

	assert.True(t, errors.Is(err, cause))
}
