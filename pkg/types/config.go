package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "quizbank/0.1 (contact: editor@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ConvertConfig holds settings for the document conversion stage.
type ConvertConfig struct {
	// PacketsDir is the directory containing source .docx packets.
	PacketsDir string `json:"packets_dir" yaml:"packets_dir"`

	// OutputDir is the directory for converted output files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Tournament, when set, prefixes packet ids (e.g. "2025_PACE_NSC").
	Tournament string `json:"tournament,omitempty" yaml:"tournament,omitempty"`

	// Format selects the output encoding: csv, json, or jsonl.
	Format string `json:"format" yaml:"format"`

	// Fold is the dataset partition assigned to converted questions.
	// Empty means DefaultFold.
	Fold string `json:"fold,omitempty" yaml:"fold,omitempty"`
}

// ResolverConfig holds settings for the answer resolution stage.
type ResolverConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheFile is the YAML answer cache path. Empty disables
	// cross-run persistence; the in-process cache still applies.
	CacheFile string `json:"cache_file,omitempty" yaml:"cache_file,omitempty"`

	// WikiDir is the local reference store: one <title>.txt file per
	// resolved article. Read for lookup, written on fetch.
	WikiDir string `json:"wiki_dir,omitempty" yaml:"wiki_dir,omitempty"`

	// FetchArticles controls whether resolved article text is
	// downloaded and persisted to WikiDir.
	FetchArticles bool `json:"fetch_articles" yaml:"fetch_articles"`
}

// BankConfig holds settings for the question bank stage.
type BankConfig struct {
	// BankDir is the base directory for the bank (contains index/).
	BankDir string `json:"bank_dir" yaml:"bank_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Convert  ConvertConfig  `json:"convert" yaml:"convert"`
	Resolver ResolverConfig `json:"resolver" yaml:"resolver"`
	Bank     BankConfig     `json:"bank" yaml:"bank"`
}
