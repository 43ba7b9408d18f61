package pipeline

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KromDaniel/regsynth/internal/logging"
	"github.com/KromDaniel/regsynth/internal/oracle"
)

// Defaults for the validation bounds.
const (
	DefaultMaxComplexity     = 100
	DefaultMaxLength         = 64
	DefaultFalsePositiveRate = 0.01
	DefaultExpectedItems     = 1_000_000
	DefaultOracleTimeout     = 2 * time.Second
)

type config struct {
	matcher       oracle.Matcher
	synth         oracle.Synthesizer
	maxComplexity int64
	maxLength     int
	fpRate        float64
	expectedItems uint
	oracleTimeout time.Duration
	workers       int
	maxRejects    int
	logger        *logging.Logger
	registerer    prometheus.Registerer
	onReject      func(candidate string, reason Reason)
}

func defaultConfig() config {
	return config{
		matcher:       oracle.Regexp{},
		maxComplexity: DefaultMaxComplexity,
		maxLength:     DefaultMaxLength,
		fpRate:        DefaultFalsePositiveRate,
		expectedItems: DefaultExpectedItems,
		oracleTimeout: DefaultOracleTimeout,
		workers:       1,
	}
}

func (c config) validate() error {
	switch {
	case c.matcher == nil:
		return fmt.Errorf("%w: matcher is nil", ErrInvalidOptions)
	case c.maxComplexity < 1:
		return fmt.Errorf("%w: max complexity must be >= 1, got %d", ErrInvalidOptions, c.maxComplexity)
	case c.maxLength < 1:
		return fmt.Errorf("%w: max length must be >= 1, got %d", ErrInvalidOptions, c.maxLength)
	case c.fpRate <= 0 || c.fpRate >= 1:
		return fmt.Errorf("%w: false positive rate must be in (0,1), got %v", ErrInvalidOptions, c.fpRate)
	case c.expectedItems < 1:
		return fmt.Errorf("%w: expected items must be >= 1", ErrInvalidOptions)
	case c.oracleTimeout <= 0:
		return fmt.Errorf("%w: oracle timeout must be positive, got %s", ErrInvalidOptions, c.oracleTimeout)
	case c.workers < 1:
		return fmt.Errorf("%w: workers must be >= 1, got %d", ErrInvalidOptions, c.workers)
	case c.maxRejects < 0:
		return fmt.Errorf("%w: max consecutive rejects must be >= 0, got %d", ErrInvalidOptions, c.maxRejects)
	}
	return nil
}

// Option configures a Validator or Pipeline.
type Option func(*config)

// WithMatcher replaces the full-match oracle.
func WithMatcher(m oracle.Matcher) Option {
	return func(c *config) { c.matcher = m }
}

// WithSynthesizer replaces the counting/enumeration oracle. The default is
// an oracle.Synth seeded with 1 that counts exactly up to the complexity
// bound.
func WithSynthesizer(s oracle.Synthesizer) Option {
	return func(c *config) { c.synth = s }
}

// WithMaxComplexity sets the exclusive upper bound on match counts. It is
// also the enumeration limit.
func WithMaxComplexity(n int64) Option {
	return func(c *config) { c.maxComplexity = n }
}

// WithMaxLength sets the exclusive upper bound on pattern length in characters.
func WithMaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// WithFalsePositiveRate sets the dedup filter's false-positive rate.
func WithFalsePositiveRate(fp float64) Option {
	return func(c *config) { c.fpRate = fp }
}

// WithExpectedItems sizes the dedup filter.
func WithExpectedItems(n uint) Option {
	return func(c *config) { c.expectedItems = n }
}

// WithOracleTimeout bounds the oracle work spent on one candidate.
func WithOracleTimeout(d time.Duration) Option {
	return func(c *config) { c.oracleTimeout = d }
}

// WithWorkers validates candidates on n goroutines. Emission order is then
// not deterministic.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithMaxConsecutiveRejects ends the stream with ErrExhausted after n
// rejections in a row. Zero disables the guard.
func WithMaxConsecutiveRejects(n int) Option {
	return func(c *config) { c.maxRejects = n }
}

// WithLogger sets the decision logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRegisterer registers the pipeline's collectors on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(c *config) { c.registerer = reg }
}

// WithRejectHook calls fn for every dropped candidate.
func WithRejectHook(fn func(candidate string, reason Reason)) Option {
	return func(c *config) { c.onReject = fn }
}
