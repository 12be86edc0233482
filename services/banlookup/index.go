package banlookup

import "time"

type Source string

const (
	SourceAnticheat Source = "anticheat"
	SourcePanel     Source = "txadmin"
)

// Record is what an index lookup resolves to, exactly one of the two
// variants is set. The source shapes are kept as-is, flattening them
// into one struct would lose fields each side needs for display.
type Record struct {
	Source    Source
	Anticheat *AnticheatBan
	Panel     *PanelAction
}

// Index maps every known identifier variant to its owning ban record.
// Duplicate identifiers resolve last-write-wins in construction order.
type Index map[string]Record

// the anticheat writes this placeholder into live/xbl slots when a
// player has no such account linked
const invalidIdentifier = "Inválido"

// BuildAnticheatIndex registers every identifier field and token of
// every record. No active-filter here: the anticheat list keeps
// revoked and expired bans around and lookups are expected to surface
// them.
func BuildAnticheatIndex(bans []AnticheatBan) Index {
	idx := Index{}
	for i := range bans {
		ban := &bans[i]
		rec := Record{Source: SourceAnticheat, Anticheat: ban}

		for _, id := range []string{ban.Discord, ban.License, ban.Steam} {
			if id != "" {
				idx[id] = rec
			}
		}
		for _, id := range []string{ban.Live, ban.Xbl} {
			if id != "" && id != invalidIdentifier {
				idx[id] = rec
			}
		}
		for _, token := range ban.Tokens {
			idx[token] = rec
		}
	}
	return idx
}

// BuildPanelIndex registers every normalized variant of every id of
// every currently-active ban action. Non-ban actions (warns, kicks)
// and inactive bans never make it into the index.
func BuildPanelIndex(actions []PanelAction, now time.Time) Index {
	idx := Index{}
	for i := range actions {
		action := &actions[i]
		if action.Type != "ban" || !action.Active(now) {
			continue
		}
		rec := Record{Source: SourcePanel, Panel: action}

		for _, id := range action.IDs {
			for _, variant := range NormalizeIdentifier(id) {
				idx[variant] = rec
			}
		}
		for _, token := range action.Tokens {
			idx[token] = rec
		}
	}
	return idx
}
