package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configFile := configPath
	dataDir := filepath.Join(home, ".local", "share", "billsample")

	// Create directories
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'billsample config show' to view current configuration")
		return nil
	}

	// Write default config
	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Point [corpus] bills_dir at your bill metadata directory")
	fmt.Println("  2. Run 'billsample analyze' to inspect the corpus")
	fmt.Println("  3. Run 'billsample sample --dry-run' to preview the sample")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'billsample config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# billsample configuration

[corpus]
# One subdirectory per bill, each holding metadata.json
bills_dir = "./data/bills"
output_dir = "./data/bills_sample"

# With replace_in_place, bills_dir is moved to backup_dir and the sample is
# written back into bills_dir. Re-runs read from the backup.
replace_in_place = false
backup_dir = "./data/bills_full_dataset"

# Glob patterns on bill directory names; empty include means all
include = []
exclude = []
progress_interval = 500

[sampling]
target_total = 250
top_fraction = 0.6   # share of each tier quota taken from the top ranked bills
# seed = 42          # fix for reproducible samples; otherwise one is generated and recorded

[sampling.ratios]
high = 0.30
medium = 0.40
low = 0.20
mixed = 0.10

[keywords]
# Setting a list here replaces the built-in set. A YAML keywords_file
# overrides any list it defines.
# high = ["healthcare", "tax", "housing"]
# keywords_file = "~/.config/billsample/keywords.yaml"

[database]
path = "~/.local/share/billsample/billsample.db"

[report]
file_name = "sample_dataset_report.json"

[logging]
level = "info"   # debug, info, warn, error
format = "text"  # text, json

[mcp]
enabled = true
transport = "stdio"
`
