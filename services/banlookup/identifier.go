package banlookup

import "strings"

// the identifier namespaces fivem hands out for a player
var identifierPrefixes = []string{"license:", "steam:", "discord:", "live:", "xbl:"}

// NormalizeIdentifier expands a raw identifier into every variant used
// for cross-system matching: the raw form first, then one entry per
// known prefix. A prefix the identifier already carries is never
// applied twice, the raw form stands in for that slot.
func NormalizeIdentifier(raw string) []string {
	variants := make([]string, 0, len(identifierPrefixes)+1)
	variants = append(variants, raw)
	for _, prefix := range identifierPrefixes {
		if strings.HasPrefix(raw, prefix) {
			variants = append(variants, raw)
			continue
		}
		variants = append(variants, prefix+raw)
	}
	return variants
}
