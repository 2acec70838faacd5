package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Prateek-coditas/color-extractor/internal/domain/entity"
)

// batchFilter renders a predicate as a filtergraph: a single-quoted
// select expression followed by an aspect-preserving downscale. The
// quoting keeps the commas inside between() away from the filterchain
// parser.
func batchFilter(pred entity.FramePredicate) string {
	return fmt.Sprintf("select='%s',%s", selectExpr(pred.Windows), scaleFilter(pred.Width))
}

// selectExpr ORs one between() term per window. ffmpeg treats the sum
// as a boolean and emits every frame whose presentation time falls
// inside any window.
func selectExpr(windows []entity.TimeWindow) string {
	terms := make([]string, len(windows))
	for i, w := range windows {
		terms[i] = fmt.Sprintf("between(t,%s,%s)", formatSeconds(w.Start), formatSeconds(w.End))
	}
	return strings.Join(terms, "+")
}

func scaleFilter(width int) string {
	return fmt.Sprintf("scale=%d:-1", width)
}

// formatSeconds renders with fixed millisecond precision so window
// bounds never pick up float noise.
func formatSeconds(secs float64) string {
	return strconv.FormatFloat(secs, 'f', 3, 64)
}
