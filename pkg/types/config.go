// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "variant-evidence/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AnnotationConfig holds settings for the annotation stage.
// Per prd001-annotation R2.1-R2.4.
type AnnotationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Assembly is the genome assembly ("GRCh38" or "GRCh37"); it selects
	// the VEP host.
	Assembly string `json:"assembly" yaml:"assembly"`
}

// LiteratureConfig holds settings for the candidate aggregation stage.
// Per prd002-literature R4.1-R4.4.
type LiteratureConfig struct {
	HTTPConfig `yaml:",inline"`

	// NCBIAPIKey raises Entrez rate limits when set.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty"`

	// NCBIEmail is sent with Entrez requests per NCBI usage policy.
	NCBIEmail string `json:"ncbi_email,omitempty" yaml:"ncbi_email,omitempty"`

	// PerKeyDelay is the pause between consecutive search-key queries
	// (default 500ms), to stay inside the collaborator's rate limits.
	PerKeyDelay time.Duration `json:"per_key_delay" yaml:"per_key_delay"`

	// MaxRetries bounds retry attempts for transient search failures.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AIProvider selects the backing text capability.
type AIProvider string

const (
	ProviderAnthropic AIProvider = "anthropic"
	ProviderOpenAI    AIProvider = "openai"
)

// AIConfig holds shared settings for stages that call the text capability.
type AIConfig struct {
	// Provider selects the capability backend: anthropic or openai.
	Provider AIProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier for the selected provider.
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature (default 0 for reproducibility).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxRetries is the number of retry attempts for transport failures
	// (default 2). Schema-level re-prompts are bounded separately to one.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Workers bounds concurrent capability calls per stage (default 4).
	// Unbounded concurrency against a rate-limited API is a correctness
	// hazard, not just a performance one.
	Workers int `json:"workers" yaml:"workers"`
}

// AssessmentConfig holds the tunable decision thresholds.
// Per prd005-assessment R2.2-R2.3.
type AssessmentConfig struct {
	// ModerateForStrong is how many independent moderate-confidence
	// experiments (from distinct papers) equal one strong call (default 2).
	ModerateForStrong int `json:"moderate_for_strong" yaml:"moderate_for_strong"`
}

// StoreConfig holds settings for the evidence store.
// Per prd006-evidence-store R1.1-R1.3.
type StoreConfig struct {
	// Path is the SQLite database file (default "evidence/evidence.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of history query results.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Annotation AnnotationConfig `json:"annotation" yaml:"annotation"`
	Literature LiteratureConfig `json:"literature" yaml:"literature"`
	AI         AIConfig         `json:"ai" yaml:"ai"`
	Assessment AssessmentConfig `json:"assessment" yaml:"assessment"`
	Store      StoreConfig      `json:"store" yaml:"store"`

	// RunTimeout bounds the whole run; zero means no deadline. On expiry
	// stages return partial results flagged incomplete.
	RunTimeout time.Duration `json:"run_timeout" yaml:"run_timeout"`
}
