// Package config loads generator and pipeline settings from defaults, an
// optional config file, REGSYNTH_* environment variables and bound flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KromDaniel/regsynth/internal/generator"
	"github.com/KromDaniel/regsynth/internal/pipeline"
)

// EnvPrefix prefixes every environment override, e.g. REGSYNTH_BUDGET_SET_COMPLEXITY.
const EnvPrefix = "REGSYNTH"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the complete run configuration.
type Config struct {
	Seed     int64             `mapstructure:"seed" yaml:"seed"`
	Budget   generator.Budget  `mapstructure:"budget" yaml:"budget"`
	Profile  generator.Profile `mapstructure:"profile" yaml:"profile"`
	Pipeline Pipeline          `mapstructure:"pipeline" yaml:"pipeline"`
	Output   Output            `mapstructure:"output" yaml:"output"`
}

// Pipeline holds the validation bounds.
type Pipeline struct {
	MaxComplexity         int64         `mapstructure:"max_complexity" yaml:"max_complexity"`
	MaxLength             int           `mapstructure:"max_length" yaml:"max_length"`
	FalsePositiveRate     float64       `mapstructure:"false_positive_rate" yaml:"false_positive_rate"`
	ExpectedItems         uint          `mapstructure:"expected_items" yaml:"expected_items"`
	OracleTimeout         time.Duration `mapstructure:"oracle_timeout" yaml:"oracle_timeout"`
	Workers               int           `mapstructure:"workers" yaml:"workers"`
	MaxConsecutiveRejects int           `mapstructure:"max_consecutive_rejects" yaml:"max_consecutive_rejects"`
}

// Output controls what the generate command writes.
type Output struct {
	Count    int    `mapstructure:"count" yaml:"count"`
	Format   string `mapstructure:"format" yaml:"format"`
	Template string `mapstructure:"template" yaml:"template"`
	Path     string `mapstructure:"path" yaml:"path"`
}

// Formats lists the supported output formats.
var Formats = []string{"jsonl", "yaml", "text"}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:    1,
		Budget:  generator.DefaultBudget(),
		Profile: generator.DefaultProfile(),
		Pipeline: Pipeline{
			MaxComplexity:     pipeline.DefaultMaxComplexity,
			MaxLength:         pipeline.DefaultMaxLength,
			FalsePositiveRate: pipeline.DefaultFalsePositiveRate,
			ExpectedItems:     pipeline.DefaultExpectedItems,
			OracleTimeout:     pipeline.DefaultOracleTimeout,
			Workers:           1,
		},
		Output: Output{
			Count:    100,
			Format:   "jsonl",
			Template: "${regex}\t${complexity}",
		},
	}
}

// SetDefaults registers every key on v so that environment variables and
// flags can override it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("seed", d.Seed)

	v.SetDefault("budget.set_complexity", d.Budget.SetSizeMax)
	v.SetDefault("budget.union_complexity", d.Budget.UnionWidthMax)
	v.SetDefault("budget.amount_complexity", d.Budget.RepeatBoundMax)
	v.SetDefault("budget.group_complexity", d.Budget.GroupChildLengthMax)
	v.SetDefault("budget.depth_complexity", d.Budget.RecursionDepthMax)
	v.SetDefault("budget.breadth_complexity", d.Budget.GroupBreadthMax)

	v.SetDefault("profile.or_more_probability", d.Profile.OrMoreProbability)
	v.SetDefault("profile.unbounded_probability", d.Profile.UnboundedProbability)
	v.SetDefault("profile.star_probability", d.Profile.StarProbability)
	v.SetDefault("profile.negated_set_probability", d.Profile.NegatedSetProbability)
	v.SetDefault("profile.quantified_chars", d.Profile.QuantifiedChars)

	v.SetDefault("pipeline.max_complexity", d.Pipeline.MaxComplexity)
	v.SetDefault("pipeline.max_length", d.Pipeline.MaxLength)
	v.SetDefault("pipeline.false_positive_rate", d.Pipeline.FalsePositiveRate)
	v.SetDefault("pipeline.expected_items", d.Pipeline.ExpectedItems)
	v.SetDefault("pipeline.oracle_timeout", d.Pipeline.OracleTimeout)
	v.SetDefault("pipeline.workers", d.Pipeline.Workers)
	v.SetDefault("pipeline.max_consecutive_rejects", d.Pipeline.MaxConsecutiveRejects)

	v.SetDefault("output.count", d.Output.Count)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.template", d.Output.Template)
	v.SetDefault("output.path", d.Output.Path)
}

// Load resolves the configuration. path may be empty; fs may be nil for
// the OS file system.
func Load(v *viper.Viper, fs afero.Fs, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		v.SetFs(fs)
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// BindFlags maps flag names to config keys.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for flag, key := range keys {
		f := flags.Lookup(flag)
		if f == nil {
			return fmt.Errorf("config: unknown flag %q", flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Budget.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := pipeline.NewValidator(c.PipelineOptions()...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Output.Count < 0 {
		return fmt.Errorf("%w: output.count must be >= 0, got %d", ErrInvalidConfig, c.Output.Count)
	}
	if !isFormat(c.Output.Format) {
		return fmt.Errorf("%w: output.format %q, want one of %s", ErrInvalidConfig, c.Output.Format, strings.Join(Formats, ", "))
	}
	return nil
}

// PipelineOptions converts the pipeline section to options.
func (c Config) PipelineOptions() []pipeline.Option {
	p := c.Pipeline
	return []pipeline.Option{
		pipeline.WithMaxComplexity(p.MaxComplexity),
		pipeline.WithMaxLength(p.MaxLength),
		pipeline.WithFalsePositiveRate(p.FalsePositiveRate),
		pipeline.WithExpectedItems(p.ExpectedItems),
		pipeline.WithOracleTimeout(p.OracleTimeout),
		pipeline.WithWorkers(p.Workers),
		pipeline.WithMaxConsecutiveRejects(p.MaxConsecutiveRejects),
	}
}

func isFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}
