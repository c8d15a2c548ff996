package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
)

// ErrNoValidRecords is returned when a .lts source contains no usable
// transition line, so no initial state can be determined.
var ErrNoValidRecords = errors.New("no valid transition records")

// warningTextLimit caps how much of a skipped line is echoed in diagnostics.
const warningTextLimit = 120

// ParseWarning describes one skipped line of a .lts source.
type ParseWarning struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Reason, w.Text)
}

// ParseResult is the structured output of the loader: the LTS, the chosen
// initial state, and a diagnostic per skipped line.
type ParseResult struct {
	LTS      *domain.LTS
	Initial  domain.State
	Warnings []ParseWarning
}

// ParseLTS reads the .lts line format: one `src action tgt` triple per line,
// whitespace-separated. Blank lines and lines starting with '#' are comments.
// Malformed lines are skipped with a warning rather than aborting the load;
// lines of any length are handled, so a corrupt oversized line can never
// silently truncate the records after it. The initial state is the source of
// the first valid line; the core receives it as an explicit value and never
// learns about line order.
func ParseLTS(source string) (*ParseResult, error) {
	res := &ParseResult{LTS: domain.NewLTS()}

	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		if len(fields) != 3 {
			res.Warnings = append(res.Warnings, ParseWarning{
				Line:   i + 1,
				Text:   snippet(line),
				Reason: fmt.Sprintf("expected 3 tokens, got %d", len(fields)),
			})
			continue
		}

		src, act, tgt := domain.State(fields[0]), domain.Action(fields[1]), domain.State(fields[2])
		if res.LTS.NumStates() == 0 {
			res.Initial = src
		}
		res.LTS.AddTransition(src, act, tgt)
	}

	if res.LTS.NumStates() == 0 {
		return nil, ErrNoValidRecords
	}
	return res, nil
}

func snippet(line string) string {
	if len(line) <= warningTextLimit {
		return line
	}
	return line[:warningTextLimit] + "..."
}
