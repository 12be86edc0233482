package banlookup

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("txbridge/banlookup")

// how long the txAdmin index is trusted before a reload
const panelCacheLifetime = time.Hour

// Service resolves player identifiers against both ban sources. The
// two caches refresh independently: the anticheat list follows its
// file's mtime, the txAdmin database is reread on a fixed clock.
type Service struct {
	anticheat *Cache
	panel     *Cache
}

func NewService(bansFile, playerDBFile string) *Service {
	return &Service{
		anticheat: NewCache(MtimePolicy{Path: bansFile}, func() (Index, error) {
			bans, err := LoadAnticheatBans(bansFile)
			if err != nil {
				return nil, err
			}
			return BuildAnticheatIndex(bans), nil
		}),
		panel: NewCache(TTLPolicy{Interval: panelCacheLifetime}, func() (Index, error) {
			actions, err := LoadPanelActions(playerDBFile)
			if err != nil {
				return nil, err
			}
			return BuildPanelIndex(actions, time.Now()), nil
		}),
	}
}

// LookupResult carries at most one hit per source. Both may be set at
// once, the sources are probed independently.
type LookupResult struct {
	Anticheat *AnticheatBan
	Panel     *PanelAction
}

func (r LookupResult) Found() bool {
	return r.Anticheat != nil || r.Panel != nil
}

// Lookup refreshes both indices as their policies dictate, then probes
// them with every variant of the queried identifier, keeping the first
// match per source.
func (s *Service) Lookup(ctx context.Context, raw string) LookupResult {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()
	span.SetAttributes(attribute.String("identifier", raw))

	variants := NormalizeIdentifier(raw)

	result := LookupResult{}
	anticheatIdx := s.anticheat.Get(ctx)
	for _, variant := range variants {
		if rec, ok := anticheatIdx[variant]; ok {
			result.Anticheat = rec.Anticheat
			break
		}
	}
	panelIdx := s.panel.Get(ctx)
	for _, variant := range variants {
		if rec, ok := panelIdx[variant]; ok {
			result.Panel = rec.Panel
			break
		}
	}

	span.SetAttributes(
		attribute.Bool("anticheat_hit", result.Anticheat != nil),
		attribute.Bool("panel_hit", result.Panel != nil),
	)
	return result
}
