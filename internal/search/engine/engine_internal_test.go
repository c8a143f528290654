// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

/*
TestTotalPages_ZeroResultsYieldsZeroPages verifies an empty result set
reports zero total pages rather than rounding up to one.
*/
func TestTotalPages_ZeroResultsYieldsZeroPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 20))
}

/*
TestTotalPages_RoundsUpPartialPage verifies a result count that doesn't
evenly divide the page size still counts the trailing partial page.
*/
func TestTotalPages_RoundsUpPartialPage(t *testing.T) {
	assert.Equal(t, 3, totalPages(41, 20))
	assert.Equal(t, 2, totalPages(40, 20))
}

/*
TestCacheKey_DeterministicForIdenticalParams verifies the same Params
value always hashes to the same cache key.
*/
func TestCacheKey_DeterministicForIdenticalParams(t *testing.T) {
	p := Params{Query: "rockets", Page: 2}
	assert.Equal(t, cacheKey(p), cacheKey(p))
}

/*
TestCacheKey_DiffersOnEveryDistinguishingField verifies that changing any
field that can affect the result set produces a different cache key —
query text, page, or any filter.
*/
func TestCacheKey_DiffersOnEveryDistinguishingField(t *testing.T) {
	base := Params{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/"}
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	variants := []Params{
		{Query: "moons", Page: 1, HomeInstance: "https://lemmy.world/"},
		{Query: "rockets", Page: 2, HomeInstance: "https://lemmy.world/"},
		{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/", Community: "https://lemmy.world/c/space"},
		{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/", Author: "https://lemmy.world/u/alice"},
		{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/", Instance: "https://lemmy.world/"},
		{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/", NSFW: true},
		{Query: "rockets", Page: 1, HomeInstance: "https://lemmy.world/", Since: &since},
		{Query: "rockets", Page: 1, HomeInstance: "https://other.instance/"},
	}

	baseKey := cacheKey(base)
	for _, v := range variants {
		assert.NotEqual(t, baseKey, cacheKey(v), "%+v", v)
	}
}

/*
TestSearchStatement_JoinsLemmyIDsOnHomeInstance verifies every result is
resolved to the caller's home instance's local numeric ID, and that the
join is mandatory (INNER), not a tautological optional filter.
*/
func TestSearchStatement_JoinsLemmyIDsOnHomeInstance(t *testing.T) {
	assert.Contains(t, searchStatement, "JOIN lemmy_ids l ON l.post_actor_id = p.ap_id AND l.instance_actor_id = $2")
	assert.Contains(t, searchStatement, "l.post_remote_id")
}

/*
TestSearchStatement_InstanceFilterIsCommunityPrefixMatch verifies the
instance: filter targets the community's ap_id with a prefix match, not
an exact equality or a lemmy_ids lookup.
*/
func TestSearchStatement_InstanceFilterIsCommunityPrefixMatch(t *testing.T) {
	assert.Contains(t, searchStatement, "c.ap_id LIKE $3 || '%'")
}

/*
TestSearchStatement_RanksByRankThenScore verifies the ORDER BY tiebreaker
is p.score DESC, matching the rank-then-score ordering S4 asserts.
*/
func TestSearchStatement_RanksByRankThenScore(t *testing.T) {
	assert.Contains(t, searchStatement, "p.score DESC")
	assert.NotContains(t, searchStatement, "p.updated DESC")
}
