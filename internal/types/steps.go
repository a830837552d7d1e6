// SPDX-License-Identifier: MIT

package types

// Step is a one-based index into the coarse processing pipeline shown to the
// user. It is derived from the reported progress percentage; the service
// itself knows nothing about steps.
type Step int

// StepCount is the number of pipeline stages.
const StepCount = 5

// StepInfo describes a single pipeline stage.
type StepInfo struct {
	Name        string
	Description string
	LogLine     string
}

// Steps lists the five pipeline stages in order. Index 0 is step 1.
var Steps = [StepCount]StepInfo{
	{
		Name:        "Audio Extraction",
		Description: "Extracting audio tracks from video",
		LogLine:     "Extracting audio from video source...",
	},
	{
		Name:        "Translation",
		Description: "Translating speech to target language",
		LogLine:     "Translating speech content...",
	},
	{
		Name:        "Voice Synthesis",
		Description: "Generating translated voice",
		LogLine:     "Synthesizing new voice audio...",
	},
	{
		Name:        "Lip Sync",
		Description: "Synchronizing lips with audio",
		LogLine:     "Applying lip synchronization...",
	},
	{
		Name:        "Rendering",
		Description: "Final video composition",
		LogLine:     "Rendering final video output...",
	},
}

// StepForProgress maps a progress percentage to the step it falls into.
// Boundaries: <20 → 1, <40 → 2, <60 → 3, <80 → 4, else 5.
func StepForProgress(progress int) Step {
	switch {
	case progress < 20:
		return 1
	case progress < 40:
		return 2
	case progress < 60:
		return 3
	case progress < 80:
		return 4
	default:
		return 5
	}
}

// Info returns the stage description for the step. Out-of-range steps are
// clamped so callers can index with a derived value without guarding.
func (s Step) Info() StepInfo {
	if s < 1 {
		s = 1
	}
	if s > StepCount {
		s = StepCount
	}
	return Steps[s-1]
}
