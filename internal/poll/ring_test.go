// SPDX-License-Identifier: MIT

package poll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogRingEvictsOldest(t *testing.T) {
	r := newLogRing(3)
	r.Append("a")
	r.Append("b")
	r.Append("c")
	assert.Equal(t, []string{"a", "b", "c"}, r.Snapshot())

	r.Append("d")
	assert.Equal(t, []string{"b", "c", "d"}, r.Snapshot())
	assert.Equal(t, 3, r.Len())
}

func TestLogRingSnapshotIsCopy(t *testing.T) {
	r := newLogRing(4)
	r.Append("a")
	snap := r.Snapshot()
	snap[0] = "mutated"
	assert.Equal(t, []string{"a"}, r.Snapshot())
}

func TestLogRingMinimumCapacity(t *testing.T) {
	r := newLogRing(0)
	r.Append("a")
	r.Append("b")
	assert.Equal(t, []string{"b"}, r.Snapshot())
}
