// SPDX-License-Identifier: MIT

package mockapi

import (
	"context"
	"sync"
	"time"

	"github.com/vtx/vtx/internal/types"
)

// stage is one point on the simulated processing timeline.
type stage struct {
	progress int
	status   types.JobStatus
}

// schedule is the canonical simulated progression. Upload observers see each
// stage for one advance interval.
var schedule = []stage{
	{10, types.JobStatusProcessing},
	{30, types.JobStatusProcessing},
	{60, types.JobStatusProcessing},
	{85, types.JobStatusProcessing},
	{100, types.JobStatusCompleted},
}

// simJob is a simulated translation job. All mutable fields are guarded by mu.
type simJob struct {
	mu sync.Mutex

	ID             string
	UserID         string
	TargetLanguage string
	FileName       string
	HasVoiceSample bool
	CreatedAt      time.Time

	status   types.JobStatus
	progress int
	message  string
}

func (j *simJob) snapshot() (types.JobStatus, int, string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status, j.progress, j.message
}

func (j *simJob) set(status types.JobStatus, progress int, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	j.progress = progress
	j.message = message
}

// run advances the job through the schedule until terminal or ctx ends.
func (j *simJob) run(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for _, st := range schedule {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		msg := "Processing"
		if st.status == types.JobStatusCompleted {
			msg = "Translation completed"
		}
		j.set(st.status, st.progress, msg)
		timer.Reset(interval)
	}
	return nil
}
