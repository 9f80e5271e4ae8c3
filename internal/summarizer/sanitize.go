package summarizer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minPointChars filters out headers and fragments the model sometimes emits
// around the actual points.
const minPointChars = 20

var bulletMarkerRe = regexp.MustCompile(`^(?:[•‣▪◦*–—-]|\d+[.)])\s+`)

// sanitizePoints converts raw model output into a validated bullet sequence.
// The result may be shorter than requested if the model under- or
// over-produced, or empty if everything was filtered.
func sanitizePoints(raw string) []string {
	var points []string

	for line := range strings.Lines(raw) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		line = strings.TrimSpace(bulletMarkerRe.ReplaceAllString(line, ""))
		if utf8.RuneCountInString(line) < minPointChars {
			continue
		}

		points = append(points, line)
	}

	// A last line without terminal punctuation is a sentence cut off by the
	// output-token cap.
	if len(points) > 0 && !endsSentence(points[len(points)-1]) {
		points = points[:len(points)-1]
	}

	return points
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") ||
		strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?")
}
