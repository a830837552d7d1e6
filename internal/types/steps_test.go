// SPDX-License-Identifier: MIT

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepForProgressBoundaries(t *testing.T) {
	tests := []struct {
		progress int
		want     Step
	}{
		{0, 1},
		{19, 1},
		{20, 2},
		{39, 2},
		{40, 3},
		{59, 3},
		{60, 4},
		{79, 4},
		{80, 5},
		{100, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StepForProgress(tt.progress), "progress=%d", tt.progress)
	}
}

func TestStepForProgressMonotone(t *testing.T) {
	prev := Step(0)
	for p := 0; p <= 100; p++ {
		got := StepForProgress(p)
		assert.GreaterOrEqual(t, got, prev, "step regressed at progress=%d", p)
		prev = got
	}
}

func TestStepInfoClamps(t *testing.T) {
	assert.Equal(t, Steps[0], Step(0).Info())
	assert.Equal(t, Steps[0], Step(1).Info())
	assert.Equal(t, Steps[4], Step(5).Info())
	assert.Equal(t, Steps[4], Step(9).Info())
	assert.Equal(t, "Lip Sync", Step(4).Info().Name)
}
