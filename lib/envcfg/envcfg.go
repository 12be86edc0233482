package envcfg

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is where deployments usually drop their .env, relative
// to the working directory.
const DefaultEnvFile = "data/config/.env"

// Load reads the .env file into the process environment. A missing file
// is fine, real environment variables always win.
func Load() {
	err := godotenv.Load(filepath.FromSlash(DefaultEnvFile))
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "path", DefaultEnvFile, "err", err)
	}
}

type TxAdminConfig struct {
	BaseURL  string
	Username string
	Password string
}

func TxAdmin() TxAdminConfig {
	return TxAdminConfig{
		BaseURL:  strings.TrimRight(os.Getenv("TX_ADMIN_BASE_URL"), "/"),
		Username: os.Getenv("TX_ADMIN_USERNAME"),
		Password: os.Getenv("TX_ADMIN_PASSWORD"),
	}
}

type StorageConfig struct {
	Errors string
	Data   string
}

func Storage() StorageConfig {
	return StorageConfig{
		Errors: getenvDefault("ERROR_SCREENSHOTS_PATH", "./data/errors"),
		Data:   getenvDefault("DATA_STORAGE_PATH", "./data/storage"),
	}
}

type DiscordConfig struct {
	Token           string
	AllowedChannels []string
	// ban list of the anticheat running on the game server
	BansFile string
	// txAdmin player database, the one that holds ban actions
	PlayerDBFile string
}

func Discord() DiscordConfig {
	var channels []string
	raw := os.Getenv("DISCORD_ALLOWED_CHANNELS")
	if raw != "" {
		for _, c := range strings.Split(raw, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				channels = append(channels, c)
			}
		}
	}
	return DiscordConfig{
		Token:           os.Getenv("DISCORD_BOT_TOKEN"),
		AllowedChannels: channels,
		BansFile:        getenvDefault("ANTICHEAT_BANS_FILE", "./data/storage/bans.json"),
		PlayerDBFile:    getenvDefault("TXADMIN_PLAYERS_DB_FILE", "./data/storage/playersDB.json"),
	}
}

// the browser only runs headless in production, everywhere else a
// visible window makes the login flow debuggable
func Headless() bool {
	return strings.EqualFold(getenvDefault("APP_ENV", "development"), "production")
}

func getenvDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}
