package banlookup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpirationUnmarshal(t *testing.T) {
	var exp Expiration
	err := json.Unmarshal([]byte("false"), &exp)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, exp.Permanent)

	err = json.Unmarshal([]byte("1714550400"), &exp)
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, exp.Permanent)
	require.Equal(t, int64(1714550400), exp.Unix)

	err = json.Unmarshal([]byte(`"soon"`), &exp)
	require.Error(t, err)
}

func TestLoadAnticheatBans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bans.json")
	err := os.WriteFile(path, []byte(`{
		"zz-ban": {"steam": "steam:2", "name": "B", "expiration": false},
		"aa-ban": {"steam": "steam:1", "name": "A", "expiration": 1714550400}
	}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	bans, err := LoadAnticheatBans(path)
	if err != nil {
		t.Fatal(err)
	}

	// key order, so two loads of the same file index identically
	require.Len(t, bans, 2)
	require.Equal(t, "aa-ban", bans[0].Key)
	require.Equal(t, "zz-ban", bans[1].Key)
	require.False(t, bans[0].Expiration.Permanent)
	require.True(t, bans[1].Expiration.Permanent)
}

func TestLoadPanelActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playersDB.json")
	err := os.WriteFile(path, []byte(`{
		"version": 5,
		"actions": [
			{"type": "ban", "ids": ["license:x"], "expiration": false},
			{"type": "warn", "ids": ["license:y"], "expiration": false}
		]
	}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	actions, err := LoadPanelActions(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, actions, 2)
	require.Equal(t, "ban", actions[0].Type)
	require.Equal(t, "warn", actions[1].Type)
}
