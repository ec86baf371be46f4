package config

import "github.com/vijay-prabhu/billsample/internal/bill"

// Config represents the application configuration
type Config struct {
	Corpus   CorpusConfig   `toml:"corpus"`
	Sampling SamplingConfig `toml:"sampling"`
	Keywords KeywordConfig  `toml:"keywords"`
	Database DatabaseConfig `toml:"database"`
	Report   ReportConfig   `toml:"report"`
	Logging  LoggingConfig  `toml:"logging"`
	MCP      MCPConfig      `toml:"mcp"`
}

// CorpusConfig locates the bill metadata and the sample destination
type CorpusConfig struct {
	BillsDir  string `toml:"bills_dir"`
	OutputDir string `toml:"output_dir"`
	BackupDir string `toml:"backup_dir"`

	// ReplaceInPlace moves bills_dir to backup_dir and writes the sample
	// back into bills_dir
	ReplaceInPlace bool `toml:"replace_in_place"`

	Include          []string `toml:"include"`
	Exclude          []string `toml:"exclude"`
	ProgressInterval int      `toml:"progress_interval"`
}

// SamplingConfig contains stratified sampling settings
type SamplingConfig struct {
	TargetTotal int         `toml:"target_total"`
	TopFraction float64     `toml:"top_fraction"`
	Seed        *int64      `toml:"seed,omitempty"`
	Ratios      RatioConfig `toml:"ratios"`
}

// RatioConfig holds the share of the sample drawn from each impact tier
type RatioConfig struct {
	High   float64 `toml:"high"`
	Medium float64 `toml:"medium"`
	Low    float64 `toml:"low"`
	Mixed  float64 `toml:"mixed"`
}

// Sum returns the total of all ratios
func (r RatioConfig) Sum() float64 {
	return r.High + r.Medium + r.Low + r.Mixed
}

// ByTier returns the ratios keyed by impact tier
func (r RatioConfig) ByTier() map[bill.Tier]float64 {
	return map[bill.Tier]float64{
		bill.TierHigh:   r.High,
		bill.TierMedium: r.Medium,
		bill.TierLow:    r.Low,
		bill.TierMixed:  r.Mixed,
	}
}

// KeywordConfig contains the keyword sets used for impact classification
type KeywordConfig struct {
	High           []string `toml:"high" yaml:"high"`
	Medium         []string `toml:"medium" yaml:"medium"`
	Low            []string `toml:"low" yaml:"low"`
	Administrative []string `toml:"administrative" yaml:"administrative"`

	// File optionally points to a YAML file overriding the lists above
	File string `toml:"keywords_file" yaml:"-"`
}

// DatabaseConfig contains run ledger settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ReportConfig contains summary report settings
type ReportConfig struct {
	FileName string `toml:"file_name"`
}

// LoggingConfig contains structured logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			BillsDir:         "./data/bills",
			OutputDir:        "./data/bills_sample",
			BackupDir:        "./data/bills_full_dataset",
			ProgressInterval: 500,
		},
		Sampling: SamplingConfig{
			TargetTotal: 250,
			TopFraction: 0.6,
			Ratios: RatioConfig{
				High:   0.30,
				Medium: 0.40,
				Low:    0.20,
				Mixed:  0.10,
			},
		},
		Keywords: DefaultKeywords(),
		Database: DatabaseConfig{
			Path: "~/.local/share/billsample/billsample.db",
		},
		Report: ReportConfig{
			FileName: "sample_dataset_report.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}

// DefaultKeywords returns the curated keyword sets
func DefaultKeywords() KeywordConfig {
	return KeywordConfig{
		High: []string{
			"healthcare",
			"medicare",
			"medicaid",
			"prescription",
			"drug",
			"health insurance",
			"tax",
			"taxes",
			"wage",
			"wages",
			"benefit",
			"benefits",
			"unemployment",
			"student loan",
			"education funding",
			"school",
			"tuition",
			"housing",
			"rent",
			"mortgage",
			"affordable housing",
			"consumer protection",
			"privacy",
			"financial services",
			"banking",
			"immigration",
			"refugee",
			"asylum",
			"family reunification",
			"social security",
			"disability",
			"veterans benefits",
		},
		Medium: []string{
			"infrastructure",
			"road",
			"bridge",
			"internet",
			"broadband",
			"utility",
			"environment",
			"air quality",
			"water quality",
			"climate",
			"pollution",
			"technology",
			"artificial intelligence",
			"ai",
			"data privacy",
			"digital rights",
			"veterans",
			"military benefits",
			"small business",
			"entrepreneur",
			"transportation",
			"public transit",
			"safety",
			"traffic",
		},
		Low: []string{
			"post office",
			"naming",
			"commemorative",
			"resolution",
			"designation",
			"government operations",
			"agency reorganization",
			"administrative",
			"military equipment",
			"defense contract",
			"base",
			"facility",
			"treaty",
			"sanctions",
			"foreign policy",
			"diplomatic",
		},
		Administrative: []string{
			"post office",
			"naming",
			"commemorative",
			"designation",
			"resolution",
			"administrative",
			"procedural",
			"government operations",
		},
	}
}
