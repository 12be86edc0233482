package banlookup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Expiration is either a unix timestamp or the json literal `false`,
// which both ban systems use to mean permanent.
type Expiration struct {
	Permanent bool
	Unix      int64
}

func (e *Expiration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) {
		*e = Expiration{Permanent: true}
		return nil
	}
	var unix float64
	err := json.Unmarshal(data, &unix)
	if err != nil {
		return fmt.Errorf("expiration must be a unix timestamp or false: %w", err)
	}
	*e = Expiration{Unix: int64(unix)}
	return nil
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	if e.Permanent {
		return []byte("false"), nil
	}
	return json.Marshal(e.Unix)
}

type Revocation struct {
	Timestamp *int64  `json:"timestamp"`
	Author    *string `json:"author,omitempty"`
}

// AnticheatBan is one record of the anticheat ban list, a json object
// keyed by ban id. Identifier fields are optional and the live/xbl
// slots may hold a placeholder instead of a real identifier.
type AnticheatBan struct {
	Key        string      `json:"-"`
	Discord    string      `json:"discord,omitempty"`
	License    string      `json:"license,omitempty"`
	Steam      string      `json:"steam,omitempty"`
	Live       string      `json:"live,omitempty"`
	Xbl        string      `json:"xbl,omitempty"`
	Tokens     []string    `json:"tokens,omitempty"`
	Name       string      `json:"name"`
	Reason     string      `json:"reason"`
	Author     string      `json:"author"`
	Timestamp  int64       `json:"timestamp"`
	Expiration Expiration  `json:"expiration"`
	Revocation *Revocation `json:"revocation,omitempty"`
}

// PanelAction is one entry of the txAdmin player database `actions`
// list. Only entries with type "ban" matter for lookups.
type PanelAction struct {
	ID         string      `json:"id,omitempty"`
	Type       string      `json:"type"`
	IDs        []string    `json:"ids"`
	Tokens     []string    `json:"tokens,omitempty"`
	PlayerName string      `json:"playerName"`
	Reason     string      `json:"reason"`
	Author     string      `json:"author"`
	Timestamp  int64       `json:"timestamp"`
	Expiration Expiration  `json:"expiration"`
	Revocation *Revocation `json:"revocation,omitempty"`
}

// LoadAnticheatBans reads the keyed ban list and returns the records in
// key order, with the map key copied onto each record. Sorting keeps
// index construction deterministic, the file itself has no order.
func LoadAnticheatBans(path string) ([]AnticheatBan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var byKey map[string]AnticheatBan
	err = json.Unmarshal(raw, &byKey)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bans := make([]AnticheatBan, 0, len(byKey))
	for _, key := range keys {
		ban := byKey[key]
		ban.Key = key
		bans = append(bans, ban)
	}
	return bans, nil
}

// LoadPanelActions reads the txAdmin player database and returns its
// actions in file order.
func LoadPanelActions(path string) ([]PanelAction, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var db struct {
		Actions []PanelAction `json:"actions"`
	}
	err = json.Unmarshal(raw, &db)
	if err != nil {
		return nil, err
	}
	return db.Actions, nil
}
