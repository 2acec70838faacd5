package extraction

import (
	"sort"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

// windowToleranceSeconds is the half-width of the time window opened
// around each requested timestamp. Wide enough to always catch a frame
// at common frame rates, narrow enough that distinct timestamps keep
// distinct windows.
const windowToleranceSeconds = 0.010

// uniqueSortedTimestamps drops duplicate offsets and returns the rest
// ascending. Frame order in the decoded stream follows presentation
// time, so this is also the association order for reconciliation.
func uniqueSortedTimestamps(timestampsMs []int64) []int64 {
	seen := make(map[int64]struct{}, len(timestampsMs))
	out := make([]int64, 0, len(timestampsMs))
	for _, ts := range timestampsMs {
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// buildPredicate opens one window per timestamp. Window starts clamp at
// zero so a request for the very first frame stays valid.
func buildPredicate(timestampsMs []int64, width int) entity.FramePredicate {
	windows := make([]entity.TimeWindow, len(timestampsMs))
	for i, ts := range timestampsMs {
		secs := float64(ts) / 1000.0
		start := secs - windowToleranceSeconds
		if start < 0 {
			start = 0
		}
		windows[i] = entity.TimeWindow{Start: start, End: secs + windowToleranceSeconds}
	}
	return entity.FramePredicate{Windows: windows, Width: width}
}
