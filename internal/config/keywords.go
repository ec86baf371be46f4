package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadKeywordsFile reads keyword sets from a YAML file of the form
//
//	high: [healthcare, tax]
//	medium: [broadband]
//	low: [treaty]
//	administrative: [post office]
func LoadKeywordsFile(path string) (KeywordConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeywordConfig{}, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var kw KeywordConfig
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return KeywordConfig{}, fmt.Errorf("failed to parse keywords file %s: %w", path, err)
	}

	return kw, nil
}

// Merge returns k with every non-empty list in override replacing its
// counterpart
func (k KeywordConfig) Merge(override KeywordConfig) KeywordConfig {
	merged := k
	if len(override.High) > 0 {
		merged.High = override.High
	}
	if len(override.Medium) > 0 {
		merged.Medium = override.Medium
	}
	if len(override.Low) > 0 {
		merged.Low = override.Low
	}
	if len(override.Administrative) > 0 {
		merged.Administrative = override.Administrative
	}
	return merged
}
