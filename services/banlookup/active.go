package banlookup

import "time"

// IsActive reports whether a ban currently applies: a revocation
// timestamp always wins, a permanent ban never runs out, anything else
// is compared against the clock.
func IsActive(revocation *Revocation, expiration Expiration, now time.Time) bool {
	if revocation != nil && revocation.Timestamp != nil {
		return false
	}
	if expiration.Permanent {
		return true
	}
	return expiration.Unix > now.Unix()
}

func (b AnticheatBan) Active(now time.Time) bool {
	return IsActive(b.Revocation, b.Expiration, now)
}

func (a PanelAction) Active(now time.Time) bool {
	return IsActive(a.Revocation, a.Expiration, now)
}
