package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"txadmin-bridge/lib/envcfg"
	"txadmin-bridge/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "txbridge",
	Short: "txbridge automates txAdmin panel logins and scrapes the activity history.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(verbose)
		envcfg.Load()

		// telemetry export is optional on operator machines
		_, err := telemetry.SetupFromEnv(cmd.Context(), "txbridge")
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "failed to setup telemetry:", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
