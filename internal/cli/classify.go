package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/billsample/internal/impact"
	"github.com/vijay-prabhu/billsample/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <title...>",
	Short: "Classify a bill title into an impact tier",
	Long: `Classify a bill title using the configured keyword sets and show which
keywords matched and which rule decided the tier.

Examples:
  billsample classify "Medicare Drug Pricing and Tax Relief Act"
  billsample classify Small Business Broadband Act --alt "Rural Internet Act"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

var classifyAlt []string

func init() {
	rootCmd.AddCommand(classifyCmd)
	classifyCmd.Flags().StringSliceVar(&classifyAlt, "alt", nil, "Alternate title (repeatable)")
}

func runClassify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}

	exp := impact.New(cfg.Keywords).Explain(title, classifyAlt)
	return output.Output(outputFmt, &exp)
}
