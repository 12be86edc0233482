package banbot

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"txadmin-bridge/lib/telemetry"
	"txadmin-bridge/services/banlookup"

	"github.com/stretchr/testify/require"
)

func newTestBot(t *testing.T, bans, playerDB string) *Bot {
	t.Helper()
	dir := t.TempDir()

	bansFile := filepath.Join(dir, "bans.json")
	err := os.WriteFile(bansFile, []byte(bans), 0644)
	if err != nil {
		t.Fatal(err)
	}
	dbFile := filepath.Join(dir, "playersDB.json")
	err = os.WriteFile(dbFile, []byte(playerDB), 0644)
	if err != nil {
		t.Fatal(err)
	}

	bot, err := New(banlookup.NewService(bansFile, dbFile), Options{
		Token:           "test-token",
		AllowedChannels: []string{"chan-allowed"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return bot
}

func TestHandleQueryRejectsUnknownChannel(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:banbot")
	defer cleanup()

	bot := newTestBot(t, `{}`, `{"actions": []}`)
	reply := bot.HandleQuery(context.Background(), "chan-other", "steam:1")

	require.Empty(t, reply.Embeds)
	require.Contains(t, reply.Content, "not allowed")
}

func TestHandleQueryUsagePrompt(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:banbot")
	defer cleanup()

	bot := newTestBot(t, `{}`, `{"actions": []}`)
	reply := bot.HandleQuery(context.Background(), "chan-allowed", "")

	require.Empty(t, reply.Embeds)
	require.Contains(t, reply.Content, "Usage")
	require.Contains(t, reply.Content, "!baninfo")
}

func TestHandleQueryNotFound(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:banbot")
	defer cleanup()

	bot := newTestBot(t, `{}`, `{"actions": []}`)
	reply := bot.HandleQuery(context.Background(), "chan-allowed", "steam:missing")

	require.Empty(t, reply.Embeds)
	require.Contains(t, reply.Content, "No ban found")
	require.Contains(t, reply.Content, "steam:missing")
}

func TestHandleQueryAnticheatEmbed(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:banbot")
	defer cleanup()

	bot := newTestBot(t, `{
		"ban-1": {
			"steam": "steam:111",
			"name": "Griefer",
			"reason": "aimbot",
			"author": "console",
			"timestamp": 1714550400,
			"expiration": false
		}
	}`, `{"actions": []}`)

	reply := bot.HandleQuery(context.Background(), "chan-allowed", "steam:111")

	require.Empty(t, reply.Content)
	require.Len(t, reply.Embeds, 1)
	embed := reply.Embeds[0]
	require.Equal(t, "Anticheat ban", embed.Title)

	fields := map[string]string{}
	for _, field := range embed.Fields {
		fields[field.Name] = field.Value
	}
	require.Equal(t, "ban-1", fields["Id"])
	require.Equal(t, "Griefer", fields["Player"])
	require.Equal(t, "aimbot", fields["Reason"])
	require.Equal(t, "Permanent", fields["Expires"])
}

func TestHandleQueryBothSourcesTwoEmbeds(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:banbot")
	defer cleanup()

	bot := newTestBot(t,
		`{"ban-1": {"license": "license:x", "expiration": false}}`,
		`{"actions": [{"type": "ban", "ids": ["license:x"], "playerName": "Cheater", "expiration": false}]}`,
	)

	reply := bot.HandleQuery(context.Background(), "chan-allowed", "x")

	require.Len(t, reply.Embeds, 2)
	require.Equal(t, "Anticheat ban", reply.Embeds[0].Title)
	require.Equal(t, "txAdmin ban", reply.Embeds[1].Title)
}

func TestFormatExpiration(t *testing.T) {
	require.Equal(t, "Permanent", formatExpiration(banlookup.Expiration{Permanent: true}))
	require.Equal(t, "2024-05-01 08:00 UTC", formatExpiration(banlookup.Expiration{Unix: 1714550400}))
}
