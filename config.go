package pdfoutline

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config controls outline detection.
type Config struct {
	// LineTolerance is the fraction of the smallest font size on a page that two
	// spans must overlap vertically by to share a line (default: 0.4)
	LineTolerance float64 `yaml:"line_tolerance"`

	// MarginRatio rejects lines lying entirely in the top or bottom fraction of a page
	// as running headers and footers. Only applies when the page height is known.
	// 0 disables the filter (default: 0.1)
	MarginRatio float64 `yaml:"margin_ratio"`

	// MaxLevel caps the outline depth (default: 6, matching H1-H6)
	MaxLevel int `yaml:"max_level"`

	// Scoring holds the heading-strength weights
	Scoring ScoringConfig `yaml:"scoring"`

	// MaxPages rejects longer documents; 0 means unlimited (default: 0)
	MaxPages int `yaml:"max_pages"`

	// IncludeRejected keeps rejected lines and their reasons in the output document
	// (default: false)
	IncludeRejected bool `yaml:"include_rejected"`

	// EnableMetricsLogging enables processing time and statistics logging (default: false)
	EnableMetricsLogging bool `yaml:"enable_metrics_logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LineTolerance: 0.4,
		MarginRatio:   0.1,
		MaxLevel:      6,
		Scoring:       DefaultScoringConfig(),
	}
}

// Validate checks the configuration for values the pipeline cannot work with.
func (c Config) Validate() error {
	if c.LineTolerance <= 0 || c.LineTolerance > 1 {
		return errors.Errorf("line_tolerance must be in (0, 1], got %v", c.LineTolerance)
	}
	if c.MarginRatio < 0 || c.MarginRatio >= 0.5 {
		return errors.Errorf("margin_ratio must be in [0, 0.5), got %v", c.MarginRatio)
	}
	if c.MaxLevel < 1 {
		return errors.Errorf("max_level must be at least 1, got %d", c.MaxLevel)
	}
	if c.MaxPages < 0 {
		return errors.Errorf("max_pages must not be negative, got %d", c.MaxPages)
	}
	if c.Scoring.MinHeadingScore < 0 {
		return errors.Errorf("scoring.min_heading_score must not be negative, got %v", c.Scoring.MinHeadingScore)
	}
	if c.Scoring.IsolationGapRatio < 0 || c.Scoring.LongLineRatio <= 0 {
		return errors.New("scoring ratios must be positive")
	}
	if c.Scoring.BoldNormRatio <= 0 || c.Scoring.BoldNormRatio > 1 {
		return errors.Errorf("scoring.bold_norm_ratio must be in (0, 1], got %v", c.Scoring.BoldNormRatio)
	}
	if c.Scoring.TOCSkipPages < 0 {
		return errors.Errorf("scoring.toc_skip_pages must not be negative, got %d", c.Scoring.TOCSkipPages)
	}
	return nil
}

// LoadConfig reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "failed to parse config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
