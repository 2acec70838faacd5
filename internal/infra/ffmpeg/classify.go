package ffmpeg

import (
	"strings"

	"github.com/Prateek-coditas/color-extractor/internal/extraction"
)

// Keyword tables matched against lowercased stderr. ffmpeg keeps the
// wording of these conditions stable across releases.
var unreachableMarkers = []string{
	"no such file or directory",
	"connection refused",
	"connection timed out",
	"server returned 404",
	"failed to resolve hostname",
	"permission denied",
	"input/output error",
}

var unsupportedMarkers = []string{
	"invalid data found when processing input",
	"moov atom not found",
	"could not find codec parameters",
	"decoder not found",
	"unknown format",
	"end of file",
}

// classifyDecodeFailure maps a failed invocation onto the typed error
// the pipeline propagates. Diagnostics that match no table become a
// DecodeError carrying the stderr tail.
func classifyDecodeFailure(source, diagnostic string, err error) error {
	lower := strings.ToLower(diagnostic)
	for _, marker := range unreachableMarkers {
		if strings.Contains(lower, marker) {
			return &extraction.SourceUnreachableError{Source: source, Diagnostic: diagnosticTail(diagnostic)}
		}
	}
	for _, marker := range unsupportedMarkers {
		if strings.Contains(lower, marker) {
			return &extraction.UnsupportedSourceError{Source: source, Diagnostic: diagnosticTail(diagnostic)}
		}
	}
	return &extraction.DecodeError{Diagnostic: diagnosticTail(diagnostic), Err: err}
}

// diagnosticTail keeps the last few stderr lines. ffmpeg prints the
// actual failure at the end, after the banner and stream dump.
func diagnosticTail(diagnostic string) string {
	lines := strings.Split(strings.TrimSpace(diagnostic), "\n")
	const keep = 4
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, " | ")
}
