package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned by New for out-of-range settings.
var ErrInvalidOptions = errors.New("pipeline: invalid options")

// ErrExhausted ends a stream after too many consecutive rejections.
var ErrExhausted = errors.New("pipeline: candidate source exhausted")

// Record is a validated pattern with every string it matches.
type Record struct {
	Regex      string   `json:"regex" yaml:"regex"`
	Complexity int64    `json:"complexity" yaml:"complexity"`
	Length     int      `json:"length" yaml:"length"`
	Examples   []string `json:"examples" yaml:"examples"`
	Features   []string `json:"features,omitempty" yaml:"features,omitempty"`
}

// Reason explains why a candidate was dropped.
type Reason int

const (
	// Accepted is the zero Reason: the candidate passed every stage.
	Accepted Reason = iota
	Invalid
	Timeout
	Complexity
	Length
	Unmatchable
	Unenumerable
	Incomplete
	Verification
	Duplicate
)

// Reasons lists every rejection reason in stage order.
var Reasons = []Reason{Invalid, Timeout, Complexity, Length, Unmatchable, Unenumerable, Incomplete, Verification, Duplicate}

var reasonNames = [...]string{
	Accepted:     "accepted",
	Invalid:      "invalid",
	Timeout:      "timeout",
	Complexity:   "complexity",
	Length:       "length",
	Unmatchable:  "unmatchable",
	Unenumerable: "unenumerable",
	Incomplete:   "incomplete",
	Verification: "verification",
	Duplicate:    "duplicate",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Stats is a snapshot of pipeline counters.
type Stats struct {
	Candidates int64
	Emitted    int64
	Rejected   map[Reason]int64
}

// TotalRejected sums every rejection reason.
func (s Stats) TotalRejected() int64 {
	var total int64
	for _, n := range s.Rejected {
		total += n
	}
	return total
}
