package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambabib/depnotify/pkg/logger"
	"github.com/sambabib/depnotify/pkg/output"
)

// Version is set during build using ldflags
var Version = "dev"

var (
	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "depnotify",
	Short:         "Reports outdated Maven dependencies to Slack",
	Long:          `depnotify runs the Maven versions plugin against your projects, collects the dependencies that have newer versions and posts the list to a Slack channel.`,
	Version:       Version,
	SilenceErrors: true, // Execute prints the error itself
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() {
	output.ToolVersion = Version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .depnotify.yaml in the project or a parent directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
