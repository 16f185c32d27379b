package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yashranaway/flexile/core/log"
)

var logLevel string

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flexile",
	Short: "GitHub PR billing verification backend",
	Long: `Flexile resolves GitHub pull request URLs into billing data: whether the PR
belongs to the company's GitHub organization, whether it was already paid on an
invoice, and its live state, author and bounty.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		if err := log.SetLevel(logLevel); err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level ("+strings.Join(logLevels(), ", ")+"); defaults to LOG_LEVEL")
}

func logLevels() []string {
	levels := make([]string, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		levels = append(levels, level.String())
	}
	return levels
}
