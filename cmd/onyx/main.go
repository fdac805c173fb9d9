// Package main provides the Onyx CLI application entry point.
// Onyx detects trigger words in a message, builds the directive prompt for the model,
// and splits tagged replies into a clean answer and collapsible working sections.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/logger"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/services"
	"github.com/DEVELOPER7-sudo/aionyxgpt-sub000/internal/version"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	logLevel   string
	logFile    string
	configFile string
	viper      *viper.Viper
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with its own viper instance.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{viper: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "onyx",
		Short: "Onyx - trigger-driven prompts and tagged answers",
		Long: `Onyx detects trigger words such as "reason" or "plan" in a message, assembles
the directive prompt sent to the model, and splits the model's tagged reply into a
clean final answer plus collapsible working sections.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.Configure(opts.logLevel, opts.logFile); err != nil {
				return fmt.Errorf("error configuring logger: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to file instead of stderr")
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: <user config dir>/onyx/config.yaml)")
	flags.String("store", "", "Custom trigger store backend (memory|file|sqlite)")
	flags.String("store-path", "", "Directory for the file and sqlite stores")

	bindFlag(opts.viper, rootCmd, services.KeyStoreBackend, "store")
	bindFlag(opts.viper, rootCmd, services.KeyStorePath, "store-path")

	rootCmd.AddCommand(
		newTriggersCmd(opts),
		newDetectCmd(opts),
		newPromptCmd(opts),
		newParseCmd(opts),
		newAskCmd(opts),
		newChatCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if detailed {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFormattedVersion())
		},
	}
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Show build details")
	return cmd
}
