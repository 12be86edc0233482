package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"txadmin-bridge/lib/browser"
	"txadmin-bridge/lib/diag"
	"txadmin-bridge/lib/envcfg"
	"txadmin-bridge/lib/serviceutil"
	"txadmin-bridge/services/history"
	"txadmin-bridge/services/session"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyFilter history.FilterCriteria

func init() {
	historyCmd.Flags().StringVar(&historyFilter.Action, "action", "", "keep entries whose action contains this text")
	historyCmd.Flags().StringVar(&historyFilter.Admin, "admin", "", "keep entries whose admin contains this text")
	historyCmd.Flags().StringVar(&historyFilter.Target, "target", "", "keep entries whose target contains this text")
	historyCmd.Flags().StringVar(&historyFilter.Since, "since", "", "keep entries dated on or after this date")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--action text] [--admin text] [--target text] [--since date]",
	Short: "Logs in, scrapes the activity history and prints it as a table.",
	Run: func(cmd *cobra.Command, args []string) {
		tx := requireTxAdminConfig()
		storage := envcfg.Storage()
		rec := diag.NewRecorder(storage.Errors)

		b, err := browser.Launch(cmd.Context(), browser.Options{Headless: envcfg.Headless()})
		if err != nil {
			serviceutil.Fatal("failed to launch browser", err)
		}
		defer b.Close(context.Background())

		loginResult := session.Login(cmd.Context(), b, rec, session.Options{
			BaseURL:  tx.BaseURL,
			Username: tx.Username,
			Password: tx.Password,
			DataDir:  storage.Data,
			KeepPage: true,
		})
		if !loginResult.Success {
			serviceutil.Fatal("login failed", errors.New(loginResult.Error))
		}
		// the page was handed off by the login flow, it is ours to close
		page := loginResult.Page
		defer page.Close(context.Background())

		result := history.Fetch(cmd.Context(), page, rec, history.Options{
			BaseURL: tx.BaseURL,
			DataDir: storage.Data,
		})
		if !result.Success {
			serviceutil.Fatal("history scrape failed", errors.New(result.Error))
		}

		entries := result.Entries
		if !historyFilter.Empty() {
			entries = history.Filter(entries, historyFilter)
		}
		renderEntries(entries)

		slog.Info("history scraped", "total", len(result.Entries), "shown", len(entries))
	},
}

func renderEntries(entries []history.Entry) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Date", "Action", "Admin", "Target", "Details"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Date, e.Action, e.Admin, e.Target, e.Details})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
