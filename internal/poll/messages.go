// SPDX-License-Identifier: MIT

package poll

// Log lines emitted by the watcher itself. Step lines come from
// types.Steps; these cover session start, the cosmetic activity feed and the
// terminal transitions.
const (
	logStarting     = "Starting AI video translation process..."
	logInitializing = "Initializing neural processing modules..."
	logCompleted    = "Translation completed successfully!"
	logFailed       = "Process failed - please check configuration"
)

// activityLines are shown at random while a job is processing, purely for
// perceived liveness. They carry no state.
var activityLines = []string{
	"Processing audio waveforms...",
	"Analyzing facial features...",
	"Optimizing voice parameters...",
	"Neural network processing...",
	"Encoding video streams...",
	"Applying temporal alignment...",
}
