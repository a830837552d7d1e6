// SPDX-License-Identifier: MIT

package poll

// logRing is a bounded trailing window of process log lines. Appending past
// capacity evicts the oldest entry. Not safe for concurrent use; the watcher
// owns it from a single goroutine.
type logRing struct {
	entries []string
	cap     int
}

func newLogRing(capacity int) *logRing {
	if capacity < 1 {
		capacity = 1
	}
	return &logRing{cap: capacity}
}

func (r *logRing) Append(line string) {
	r.entries = append(r.entries, line)
	if len(r.entries) > r.cap {
		r.entries = r.entries[len(r.entries)-r.cap:]
	}
}

// Snapshot returns a copy of the current window, oldest first.
func (r *logRing) Snapshot() []string {
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *logRing) Len() int { return len(r.entries) }
