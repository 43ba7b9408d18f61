// Package generator builds random regex syntax trees under complexity budgets.
package generator

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidBudget is returned when a budget knob is out of range.
	ErrInvalidBudget = errors.New("generator: invalid complexity budget")
	// ErrInvalidProbability is returned when a profile probability is outside [0,1].
	ErrInvalidProbability = errors.New("generator: probability out of range")
)

// Budget bounds the shape of generated patterns. It is passed by value to
// every generation call.
type Budget struct {
	// SetSizeMax is the largest number of members in a character set. Must be >= 1.
	SetSizeMax int `mapstructure:"set_complexity" json:"set_complexity" yaml:"set_complexity"`

	// UnionWidthMax is the largest number of branches in an alternation.
	UnionWidthMax int `mapstructure:"union_complexity" json:"union_complexity" yaml:"union_complexity"`

	// RepeatBoundMax bounds the counts of {n,m} quantifiers: n <= max and m-n <= max.
	RepeatBoundMax int `mapstructure:"amount_complexity" json:"amount_complexity" yaml:"amount_complexity"`

	// GroupChildLengthMax is the largest number of characters in a leaf group.
	GroupChildLengthMax int `mapstructure:"group_complexity" json:"group_complexity" yaml:"group_complexity"`

	// RecursionDepthMax is the depth past which groups stop nesting.
	RecursionDepthMax int `mapstructure:"depth_complexity" json:"depth_complexity" yaml:"depth_complexity"`

	// GroupBreadthMax is the largest number of groups at one level. Must be >= 1.
	GroupBreadthMax int `mapstructure:"breadth_complexity" json:"breadth_complexity" yaml:"breadth_complexity"`
}

// DefaultBudget returns a small budget that produces mostly enumerable patterns.
func DefaultBudget() Budget {
	return Budget{
		SetSizeMax:          3,
		UnionWidthMax:       2,
		RepeatBoundMax:      2,
		GroupChildLengthMax: 5,
		RecursionDepthMax:   1,
		GroupBreadthMax:     1,
	}
}

// Validate checks every knob.
func (b Budget) Validate() error {
	if b.SetSizeMax < 1 {
		return fmt.Errorf("%w: set_complexity must be >= 1, got %d", ErrInvalidBudget, b.SetSizeMax)
	}
	if b.GroupBreadthMax < 1 {
		return fmt.Errorf("%w: breadth_complexity must be >= 1, got %d", ErrInvalidBudget, b.GroupBreadthMax)
	}
	for name, v := range map[string]int{
		"union_complexity":  b.UnionWidthMax,
		"amount_complexity": b.RepeatBoundMax,
		"group_complexity":  b.GroupChildLengthMax,
		"depth_complexity":  b.RecursionDepthMax,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidBudget, name, v)
		}
	}
	return nil
}

// Profile holds the probabilities used when wrapping groups in quantifiers
// and when drawing sets.
type Profile struct {
	// OrMoreProbability selects {n,} over an exact {n} on the unbounded branch.
	OrMoreProbability float64 `mapstructure:"or_more_probability" json:"or_more_probability" yaml:"or_more_probability"`

	// UnboundedProbability selects the branch without an upper bound.
	UnboundedProbability float64 `mapstructure:"unbounded_probability" json:"unbounded_probability" yaml:"unbounded_probability"`

	// StarProbability selects * over +.
	StarProbability float64 `mapstructure:"star_probability" json:"star_probability" yaml:"star_probability"`

	// NegatedSetProbability selects [^...] over [...].
	NegatedSetProbability float64 `mapstructure:"negated_set_probability" json:"negated_set_probability" yaml:"negated_set_probability"`

	// QuantifiedChars adds quantified variants of one random character to
	// each character pool.
	QuantifiedChars bool `mapstructure:"quantified_chars" json:"quantified_chars" yaml:"quantified_chars"`
}

// DefaultProfile returns the standard probabilities.
func DefaultProfile() Profile {
	return Profile{
		OrMoreProbability:     0.25,
		UnboundedProbability:  0.25,
		StarProbability:       0.5,
		NegatedSetProbability: 0.5,
	}
}

// Validate checks that every probability lies in [0,1].
func (p Profile) Validate() error {
	for name, v := range map[string]float64{
		"or_more_probability":     p.OrMoreProbability,
		"unbounded_probability":   p.UnboundedProbability,
		"star_probability":        p.StarProbability,
		"negated_set_probability": p.NegatedSetProbability,
	} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: %s = %v", ErrInvalidProbability, name, v)
		}
	}
	return nil
}
