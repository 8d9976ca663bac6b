package analyzer

import "strings"

const (
	// ArrowMarker separates the current version from the available one
	ArrowMarker = "->"
	// ContinuationMarker is the dot leader the versions plugin pads names with
	ContinuationMarker = "..."

	infoTag      = "[INFO]"
	bannerPrefix = "Scanning for projects"
)

type extractorState int

const (
	collectingEmpty extractorState = iota
	collectingNonEmpty
)

// Extractor isolates dependency-update announcements in Maven output.
// An announcement may span several lines when the artifact name is long;
// lines are accumulated until the arrow marker shows up.
type Extractor struct {
	state extractorState
	acc   strings.Builder
}

// NewExtractor returns an Extractor in the collecting-empty state.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Feed consumes one output line. It returns the sealed block when the
// accumulator has just received the arrow marker.
func (e *Extractor) Feed(line string) (string, bool) {
	if !isRelevant(line) {
		return "", false
	}

	e.acc.WriteString(strings.ReplaceAll(line, infoTag, ""))
	e.state = collectingNonEmpty

	if !strings.Contains(e.acc.String(), ArrowMarker) {
		return "", false
	}

	block := strings.TrimSpace(e.acc.String())
	e.reset()
	return block, true
}

// Close ends the input. Whatever is still unsealed is dropped; it is returned
// only so callers can see what was discarded.
func (e *Extractor) Close() string {
	if e.state == collectingEmpty {
		return ""
	}
	dropped := e.acc.String()
	e.reset()
	return dropped
}

func (e *Extractor) reset() {
	e.acc.Reset()
	e.state = collectingEmpty
}

func isRelevant(line string) bool {
	if strings.Contains(line, ArrowMarker) {
		return true
	}
	return strings.Contains(line, ContinuationMarker) && !strings.Contains(line, bannerPrefix)
}

// ExtractBlocks runs lines through a fresh Extractor and returns the sealed blocks.
func ExtractBlocks(lines []string) []string {
	e := NewExtractor()
	var blocks []string
	for _, line := range lines {
		if block, ok := e.Feed(line); ok {
			blocks = append(blocks, block)
		}
	}
	e.Close()
	return blocks
}
