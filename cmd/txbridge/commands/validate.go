package commands

import (
	"errors"
	"log/slog"

	"txadmin-bridge/lib/envcfg"
	"txadmin-bridge/lib/serviceutil"
	"txadmin-bridge/services/session"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks whether the saved session credentials are still accepted.",
	Run: func(cmd *cobra.Command, args []string) {
		tx := requireTxAdminConfig()
		storage := envcfg.Storage()

		result, err := session.Validate(cmd.Context(), tx.BaseURL, storage.Data)
		if err != nil {
			serviceutil.Fatal("failed to probe the panel", err)
		}
		if !result.Live {
			serviceutil.Fatal("session expired", errors.New("the panel redirected the probe back to the auth page"))
		}

		slog.Info("session is live", "status", result.Status, "url", result.LandedURL)
	},
}
