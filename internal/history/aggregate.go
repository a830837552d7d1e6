// SPDX-License-Identifier: MIT

package history

import (
	"math"
	"time"
)

// Summary is the derived account view. It is computed from entries on every
// call and never stored.
type Summary struct {
	TotalVideos  int
	TotalWords   int
	TotalTimeSec int

	// VideosPerLanguage counts jobs by target language code.
	VideosPerLanguage map[string]int

	// SuccessRatePct is completed jobs over all terminal jobs, in percent.
	// Zero when no job has reached a terminal state yet.
	SuccessRatePct float64

	// WeekGrowthPct compares jobs created in the last 7 days against the
	// 7 days before that.
	WeekGrowthPct float64
}

// Aggregate derives the dashboard summary from raw entries. now anchors the
// growth windows.
func Aggregate(entries []Entry, now time.Time) Summary {
	sum := Summary{VideosPerLanguage: make(map[string]int)}

	var terminal, completed int
	var thisWeek, lastWeek int
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	for _, e := range entries {
		sum.TotalVideos++
		sum.TotalWords += e.Words
		sum.TotalTimeSec += e.DurationSec
		if e.TargetLanguage != "" {
			sum.VideosPerLanguage[e.TargetLanguage]++
		}

		switch e.Status {
		case "completed":
			terminal++
			completed++
		case "failed":
			terminal++
		}

		switch {
		case !e.CreatedAt.Before(weekAgo) && !e.CreatedAt.After(now):
			thisWeek++
		case !e.CreatedAt.Before(twoWeeksAgo) && e.CreatedAt.Before(weekAgo):
			lastWeek++
		}
	}

	if terminal > 0 {
		sum.SuccessRatePct = round1(float64(completed) / float64(terminal) * 100)
	}
	sum.WeekGrowthPct = growthPct(thisWeek, lastWeek)
	return sum
}

func growthPct(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round1(float64(current-previous) / float64(previous) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
