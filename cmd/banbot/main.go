package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"txadmin-bridge/lib/envcfg"
	"txadmin-bridge/lib/serviceutil"
	"txadmin-bridge/lib/telemetry"
	"txadmin-bridge/services/banbot"
	"txadmin-bridge/services/banlookup"
)

func main() {
	telemetry.InitSlog(true)
	envcfg.Load()

	_, err := telemetry.SetupFromEnv(context.Background(), "banbot")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	cfg := envcfg.Discord()
	if cfg.Token == "" {
		serviceutil.Fatal("missing configuration", fmt.Errorf("DISCORD_BOT_TOKEN must be set"))
	}
	if len(cfg.AllowedChannels) == 0 {
		slog.Warn("DISCORD_ALLOWED_CHANNELS is empty, every lookup will be rejected")
	}

	lookup := banlookup.NewService(cfg.BansFile, cfg.PlayerDBFile)
	bot, err := banbot.New(lookup, banbot.Options{
		Token:           cfg.Token,
		AllowedChannels: cfg.AllowedChannels,
	})
	if err != nil {
		serviceutil.Fatal("failed to create bot", err)
	}

	err = bot.Open()
	if err != nil {
		serviceutil.Fatal("failed to connect to discord", err)
	}
	defer bot.Close()

	slog.Info(
		"ban lookup bot is running",
		"allowed_channels", len(cfg.AllowedChannels),
		"bans_file", cfg.BansFile,
		"player_db", cfg.PlayerDBFile,
	)

	ctx := serviceutil.SignalContext()
	<-ctx.Done()
	slog.Info("shutting down")
}
