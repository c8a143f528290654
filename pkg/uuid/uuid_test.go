// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcmaehl/lemmysearch/pkg/uuid"
)

/*
TestWordID_Deterministic verifies that the same word always yields the
same ID, independent of call order or process.
*/
func TestWordID_Deterministic(t *testing.T) {
	assert.Equal(t, uuid.WordID("alpha"), uuid.WordID("alpha"))
}

/*
TestWordID_DistinctForDistinctWords verifies that different words hash to
different identifiers.
*/
func TestWordID_DistinctForDistinctWords(t *testing.T) {
	assert.NotEqual(t, uuid.WordID("alpha"), uuid.WordID("beta"))
}
