package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/diag"
	"txadmin-bridge/lib/envcfg"
	"txadmin-bridge/lib/serviceutil"
	"txadmin-bridge/services/session"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

func requireTxAdminConfig() envcfg.TxAdminConfig {
	tx := envcfg.TxAdmin()
	if tx.BaseURL == "" || tx.Username == "" || tx.Password == "" {
		serviceutil.Fatal(
			"missing txAdmin configuration",
			fmt.Errorf("TX_ADMIN_BASE_URL, TX_ADMIN_USERNAME and TX_ADMIN_PASSWORD must be set"),
		)
	}
	return tx
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Logs into the txAdmin panel and saves the session credentials.",
	Run: func(cmd *cobra.Command, args []string) {
		tx := requireTxAdminConfig()
		storage := envcfg.Storage()
		rec := diag.NewRecorder(storage.Errors)

		headless := envcfg.Headless()
		slog.Info("launching browser", "headless", headless)
		b, err := browser.Launch(cmd.Context(), browser.Options{Headless: headless})
		if err != nil {
			serviceutil.Fatal("failed to launch browser", err)
		}
		defer b.Close(context.Background())

		result := session.Login(cmd.Context(), b, rec, session.Options{
			BaseURL:  tx.BaseURL,
			Username: tx.Username,
			Password: tx.Password,
			DataDir:  storage.Data,
		})
		if !result.Success {
			serviceutil.Fatal("login failed", errors.New(result.Error))
		}

		slog.Info(
			"login complete, the saved credentials are ready for API use",
			"data_dir", storage.Data,
			"has_csrf", result.CsrfToken != "",
		)
	},
}
