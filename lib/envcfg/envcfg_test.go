package envcfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxAdminTrimsTrailingSlash(t *testing.T) {
	t.Setenv("TX_ADMIN_BASE_URL", "https://panel.example.com:40120/")
	t.Setenv("TX_ADMIN_USERNAME", "admin")
	t.Setenv("TX_ADMIN_PASSWORD", "hunter2")

	cfg := TxAdmin()
	require.Equal(t, "https://panel.example.com:40120", cfg.BaseURL)
	require.Equal(t, "admin", cfg.Username)
	require.Equal(t, "hunter2", cfg.Password)
}

func TestStorageDefaults(t *testing.T) {
	t.Setenv("ERROR_SCREENSHOTS_PATH", "")
	t.Setenv("DATA_STORAGE_PATH", "")

	cfg := Storage()
	require.Equal(t, "./data/errors", cfg.Errors)
	require.Equal(t, "./data/storage", cfg.Data)

	t.Setenv("DATA_STORAGE_PATH", "/var/lib/txbridge")
	require.Equal(t, "/var/lib/txbridge", Storage().Data)
}

func TestDiscordChannelList(t *testing.T) {
	t.Setenv("DISCORD_BOT_TOKEN", "tok")
	t.Setenv("DISCORD_ALLOWED_CHANNELS", "111, 222 ,,333")

	cfg := Discord()
	require.Equal(t, "tok", cfg.Token)
	require.Equal(t, []string{"111", "222", "333"}, cfg.AllowedChannels)
}

func TestDiscordNoChannels(t *testing.T) {
	t.Setenv("DISCORD_ALLOWED_CHANNELS", "")
	require.Empty(t, Discord().AllowedChannels)
}

func TestHeadless(t *testing.T) {
	t.Setenv("APP_ENV", "")
	require.False(t, Headless())

	t.Setenv("APP_ENV", "development")
	require.False(t, Headless())

	t.Setenv("APP_ENV", "production")
	require.True(t, Headless())

	t.Setenv("APP_ENV", "PRODUCTION")
	require.True(t, Headless())
}
