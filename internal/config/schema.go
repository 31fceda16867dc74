package config

// ScoringConfig holds the scoring policy shared by all scorer implementations
type ScoringConfig struct {
	Scoring Scoring `yaml:"scoring"`
}

type Scoring struct {
	Ranges          Ranges          `yaml:"ranges"`
	FallbackPhrases []string        `yaml:"fallback_phrases"`
	Weights         Weights         `yaml:"weights"`
	LLM             LLMScorerConfig `yaml:"llm"`
}

// Range is a closed interval [Min, Max]
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

func (r Range) isZero() bool {
	return r.Min == 0 && r.Max == 0
}

type Ranges struct {
	Clarity      Range `yaml:"clarity"`
	Relevance    Range `yaml:"relevance"`
	Accuracy     Range `yaml:"accuracy"`
	Completeness Range `yaml:"completeness"`
	Empathy      Range `yaml:"empathy"`
	ResponseTime Range `yaml:"response_time"`
}

// Weights of the sub-scores in the overall score
type Weights struct {
	Clarity      float64 `yaml:"clarity"`
	Relevance    float64 `yaml:"relevance"`
	Accuracy     float64 `yaml:"accuracy"`
	Completeness float64 `yaml:"completeness"`
	Empathy      float64 `yaml:"empathy"`
}

func (w Weights) Sum() float64 {
	return w.Clarity + w.Relevance + w.Accuracy + w.Completeness + w.Empathy
}

type LLMScorerConfig struct {
	Prompt string      `yaml:"prompt"`
	Model  ModelConfig `yaml:"model"`
}

type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Retry       bool    `yaml:"retry"`
}
