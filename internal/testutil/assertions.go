// Package testutil provides in-process guest doubles and assertions for bridge tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

// AssertWithin asserts that r lies inside [start, end).
func AssertWithin(t *testing.T, r entities.Region, start, end uint64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.GreaterOrEqual(t, uint64(r.Offset), start, msgAndArgs...)
	assert.LessOrEqual(t, r.End(), end, msgAndArgs...)
}

// AssertDisjoint asserts that no two regions overlap.
func AssertDisjoint(t *testing.T, regions []entities.Region, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range regions {
		for j := i + 1; j < len(regions); j++ {
			assert.False(t, regions[i].Overlaps(regions[j]),
				"regions %s and %s overlap", regions[i], regions[j])
		}
	}
	if t.Failed() && len(msgAndArgs) > 0 {
		t.Log(msgAndArgs...)
	}
}
