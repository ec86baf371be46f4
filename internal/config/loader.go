package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrNotFound is returned by Load when the config file does not exist
var ErrNotFound = errors.New("config file not found")

// ratioTolerance is how far the tier ratios may drift from 1.0
const ratioTolerance = 0.001

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run 'billsample config init' to create)", ErrNotFound, expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Finalize expands paths, applies the keyword override file and validates
func (c *Config) Finalize() error {
	if err := c.expandPaths(); err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}

	if c.Keywords.File != "" {
		kw, err := LoadKeywordsFile(c.Keywords.File)
		if err != nil {
			return err
		}
		c.Keywords = c.Keywords.Merge(kw)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	paths := []*string{
		&c.Corpus.BillsDir,
		&c.Corpus.OutputDir,
		&c.Corpus.BackupDir,
		&c.Database.Path,
		&c.Keywords.File,
	}

	for _, p := range paths {
		expanded, err := expandPath(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Corpus validation
	if c.Corpus.BillsDir == "" {
		errs = append(errs, errors.New("corpus.bills_dir is required"))
	}
	if c.Corpus.ReplaceInPlace {
		if c.Corpus.BackupDir == "" {
			errs = append(errs, errors.New("corpus.backup_dir is required when replace_in_place is set"))
		} else if filepath.Clean(c.Corpus.BackupDir) == filepath.Clean(c.Corpus.BillsDir) {
			errs = append(errs, errors.New("corpus.backup_dir must differ from corpus.bills_dir"))
		}
	} else {
		if c.Corpus.OutputDir == "" {
			errs = append(errs, errors.New("corpus.output_dir is required"))
		} else if filepath.Clean(c.Corpus.OutputDir) == filepath.Clean(c.Corpus.BillsDir) {
			errs = append(errs, errors.New("corpus.output_dir must differ from corpus.bills_dir (use replace_in_place)"))
		}
	}
	if c.Corpus.ProgressInterval < 1 {
		errs = append(errs, errors.New("corpus.progress_interval must be at least 1"))
	}

	// Sampling validation
	errs = append(errs, c.Sampling.validate()...)

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Report validation
	if c.Report.FileName == "" {
		errs = append(errs, errors.New("report.file_name is required"))
	} else if strings.ContainsRune(c.Report.FileName, filepath.Separator) {
		errs = append(errs, fmt.Errorf("report.file_name must be a plain file name, got '%s'", c.Report.FileName))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got '%s'", c.Logging.Level))
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be 'text' or 'json', got '%s'", c.Logging.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func (s SamplingConfig) validate() []error {
	var errs []error

	if s.TargetTotal < 1 {
		errs = append(errs, fmt.Errorf("sampling.target_total must be positive, got %d", s.TargetTotal))
	}
	if s.TopFraction < 0 || s.TopFraction > 1 {
		errs = append(errs, fmt.Errorf("sampling.top_fraction must be between 0 and 1, got %v", s.TopFraction))
	}

	r := s.Ratios
	if r.High < 0 || r.Medium < 0 || r.Low < 0 || r.Mixed < 0 {
		errs = append(errs, errors.New("sampling.ratios must not be negative"))
	}
	if sum := r.Sum(); math.Abs(sum-1.0) > ratioTolerance {
		errs = append(errs, fmt.Errorf("sampling.ratios must sum to 1.0, got %.3f", sum))
	}

	return errs
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DestinationDir returns where the sample is written
func (c *Config) DestinationDir() string {
	if c.Corpus.ReplaceInPlace {
		return c.Corpus.BillsDir
	}
	return c.Corpus.OutputDir
}
