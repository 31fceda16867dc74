package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultScoringConfigPath = "configs/scoring.yaml"

// DefaultRanges are the bounds downstream consumers of reports rely on.
var DefaultRanges = Ranges{
	Clarity:      Range{Min: 3.0, Max: 5.0},
	Relevance:    Range{Min: 3.0, Max: 5.0},
	Accuracy:     Range{Min: 3.0, Max: 5.0},
	Completeness: Range{Min: 4.0, Max: 5.0},
	Empathy:      Range{Min: 1.0, Max: 5.0},
	ResponseTime: Range{Min: 5.0, Max: 30.0},
}

var DefaultFallbackPhrases = []string{"don't know", "not sure"}

// Default returns the built-in scoring policy.
func Default() *ScoringConfig {
	cfg := &ScoringConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadScoringConfig reads the YAML file named by SCORING_CONFIG_PATH. When the
// variable is unset and the default file does not exist the built-in policy is used.
func LoadScoringConfig() (*ScoringConfig, error) {
	path := os.Getenv("SCORING_CONFIG_PATH")
	explicit := path != ""
	if !explicit {
		path = defaultScoringConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*ScoringConfig, error) {
	var cfg ScoringConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *ScoringConfig) {
	r := &cfg.Scoring.Ranges
	for _, f := range []struct {
		dst *Range
		def Range
	}{
		{&r.Clarity, DefaultRanges.Clarity},
		{&r.Relevance, DefaultRanges.Relevance},
		{&r.Accuracy, DefaultRanges.Accuracy},
		{&r.Completeness, DefaultRanges.Completeness},
		{&r.Empathy, DefaultRanges.Empathy},
		{&r.ResponseTime, DefaultRanges.ResponseTime},
	} {
		if f.dst.isZero() {
			*f.dst = f.def
		}
	}

	if len(cfg.Scoring.FallbackPhrases) == 0 {
		cfg.Scoring.FallbackPhrases = append([]string(nil), DefaultFallbackPhrases...)
	}

	if cfg.Scoring.Weights == (Weights{}) {
		cfg.Scoring.Weights = Weights{Clarity: 1, Relevance: 1, Accuracy: 1, Completeness: 1, Empathy: 1}
	}

	if cfg.Scoring.LLM.Model.MaxTokens == 0 {
		cfg.Scoring.LLM.Model.MaxTokens = 512
	}
	if cfg.Scoring.LLM.Prompt == "" {
		cfg.Scoring.LLM.Prompt = DefaultLLMPrompt
	}
}

func (c *ScoringConfig) Validate() error {
	r := c.Scoring.Ranges
	scored := map[string]Range{
		"clarity":      r.Clarity,
		"relevance":    r.Relevance,
		"accuracy":     r.Accuracy,
		"completeness": r.Completeness,
		"empathy":      r.Empathy,
	}
	for name, rng := range scored {
		if rng.Min > rng.Max {
			return fmt.Errorf("range %s: min %.2f greater than max %.2f", name, rng.Min, rng.Max)
		}
		if rng.Min < 0 || rng.Max > 5 {
			return fmt.Errorf("range %s: [%.2f, %.2f] outside [0, 5]", name, rng.Min, rng.Max)
		}
	}
	if r.ResponseTime.Min < 0 || r.ResponseTime.Min > r.ResponseTime.Max {
		return fmt.Errorf("range response_time: invalid bounds [%.2f, %.2f]", r.ResponseTime.Min, r.ResponseTime.Max)
	}

	w := c.Scoring.Weights
	for _, v := range []float64{w.Clarity, w.Relevance, w.Accuracy, w.Completeness, w.Empathy} {
		if v < 0 {
			return fmt.Errorf("weights must not be negative")
		}
	}
	if w.Sum() == 0 {
		return fmt.Errorf("at least one weight must be positive")
	}

	return nil
}
