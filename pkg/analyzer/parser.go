package analyzer

import (
	"fmt"
	"strings"
)

// Delimiter wraps keys and values so Slack renders them as inline code
const Delimiter = "`"

// MalformedUpdateBlock is returned when a sealed block does not split into
// key/value pairs.
type MalformedUpdateBlock struct {
	Block  string
	Tokens []string
}

func (e *MalformedUpdateBlock) Error() string {
	return fmt.Sprintf("malformed update block %q: %d tokens after filtering, expected an even number", e.Block, len(e.Tokens))
}

// ParseBlock turns one sealed block into its dependency records.
//
// The block is split on single spaces into at most three tokens so the
// trailing "1.0 -> 2.0" part stays whole. Dot-leader tokens are dropped and
// the rest are read as key, value pairs.
func ParseBlock(block string) ([]DependencyUpdate, error) {
	trimmed := strings.TrimSpace(block)

	var tokens []string
	for _, tok := range strings.SplitN(trimmed, " ", 3) {
		if strings.Contains(tok, ContinuationMarker) {
			continue
		}
		tokens = append(tokens, tok)
	}

	// Without a dot leader the split cuts "1.0 -> 2.0" in two; an arrow never
	// starts an identity, so glue it back onto the version before it.
	if n := len(tokens); n%2 != 0 && n >= 3 && strings.HasPrefix(strings.TrimSpace(tokens[n-1]), ArrowMarker) {
		tokens = append(tokens[:n-2], tokens[n-2]+" "+tokens[n-1])
	}

	if len(tokens)%2 != 0 {
		return nil, &MalformedUpdateBlock{Block: block, Tokens: tokens}
	}

	updates := make([]DependencyUpdate, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		updates = append(updates, DependencyUpdate{
			Key:   wrap(tokens[i]),
			Value: wrap(tokens[i+1]),
		})
	}
	return updates, nil
}

// Parse builds the ScanResult for a whole scan. The first malformed block aborts.
func Parse(blocks []string) (*ScanResult, error) {
	result := NewScanResult()
	for _, block := range blocks {
		updates, err := ParseBlock(block)
		if err != nil {
			return nil, err
		}
		for _, u := range updates {
			result.put(u)
		}
	}
	return result, nil
}

func wrap(s string) string {
	return Delimiter + strings.TrimSpace(s) + Delimiter
}

func unwrap(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, Delimiter), Delimiter)
}
