package pipeline

import (
	"context"
	"errors"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/KromDaniel/regsynth/internal/analysis"
	"github.com/KromDaniel/regsynth/internal/logging"
	"github.com/KromDaniel/regsynth/internal/oracle"
)

// Validator runs the per-candidate stages: enrichment, complexity and
// length bounds, a full-match sanity check, enumeration, completeness and
// verification. It holds no per-stream state and is safe for concurrent use.
type Validator struct {
	cfg     config
	metrics *metrics
}

// NewValidator applies opts over the defaults.
func NewValidator(opts ...Option) (*Validator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.synth == nil {
		cfg.synth = oracle.NewSynth(1, oracle.WithExactLimit(max(oracle.DefaultExactLimit, cfg.maxComplexity)))
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewLogger("pipeline", false)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}
	return &Validator{cfg: cfg, metrics: m}, nil
}

// Validate runs every stage on candidate. The returned record is complete
// only when the reason is Accepted.
func (v *Validator) Validate(ctx context.Context, candidate string) (Record, Reason) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.oracleTimeout)
	defer cancel()

	rec := Record{Regex: candidate, Length: utf8.RuneCountInString(candidate)}

	start := time.Now()
	count, err := v.cfg.synth.Count(ctx, candidate)
	v.metrics.observe("count", start)
	if err != nil {
		return rec, classify(err, Invalid)
	}
	rec.Complexity = count
	if res, err := analysis.Analyze(candidate); err == nil {
		rec.Features = res.Features
	}

	if count <= 0 || count >= v.cfg.maxComplexity {
		return rec, Complexity
	}
	if rec.Length >= v.cfg.maxLength {
		return rec, Length
	}

	compiled, err := v.cfg.matcher.Compile(candidate)
	if err != nil {
		return rec, Invalid
	}
	start = time.Now()
	sample, err := v.cfg.synth.Generate(ctx, candidate)
	v.metrics.observe("generate", start)
	if err != nil {
		return rec, classify(err, Unmatchable)
	}
	if !compiled.FullMatch(sample) {
		return rec, Unmatchable
	}

	start = time.Now()
	examples, err := v.cfg.synth.Enumerate(ctx, candidate, v.cfg.maxComplexity)
	v.metrics.observe("enumerate", start)
	if err != nil {
		return rec, classify(err, Unenumerable)
	}
	if len(examples) == 0 || int64(len(examples)) != count {
		return rec, Incomplete
	}
	for _, e := range examples {
		if !compiled.FullMatch(e) {
			return rec, Verification
		}
	}

	rec.Examples = examples
	return rec, Accepted
}

// Verify re-validates a stored record and checks that its counts and
// examples agree with a fresh validation.
func (v *Validator) Verify(ctx context.Context, rec Record) Reason {
	fresh, reason := v.Validate(ctx, rec.Regex)
	if reason != Accepted {
		return reason
	}
	if rec.Complexity != fresh.Complexity || rec.Length != fresh.Length {
		return Incomplete
	}
	if int64(len(rec.Examples)) != rec.Complexity {
		return Incomplete
	}

	got := slices.Clone(rec.Examples)
	want := slices.Clone(fresh.Examples)
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return Verification
	}
	return Accepted
}

func classify(err error, fallback Reason) Reason {
	switch {
	case errors.Is(err, oracle.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, oracle.ErrSyntax):
		return Invalid
	}
	return fallback
}
