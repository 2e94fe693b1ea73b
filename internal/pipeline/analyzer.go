// Package pipeline wires the analysis stages: OCR tokens in, structured
// wine list out. Geometry, classification, and normalization run
// synchronously and deterministically; enrichment runs last, best-effort,
// and can only add to the result.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"winescan/internal/layout"
	"winescan/internal/menu"
	"winescan/internal/wine"
)

// Enricher is the optional enrichment stage. Nil disables it.
type Enricher interface {
	EnrichItems(ctx context.Context, items []*wine.Item) (failed bool)
}

type Analyzer struct {
	overlapRatio float64
	vintagePivot int
	enricher     Enricher
	log          *slog.Logger
}

func NewAnalyzer(overlapRatio float64, vintagePivot int, enricher Enricher, log *slog.Logger) *Analyzer {
	if overlapRatio <= 0 || overlapRatio > 1 {
		overlapRatio = layout.DefaultOverlapRatio
	}
	if vintagePivot <= 0 || vintagePivot > 99 {
		vintagePivot = menu.DefaultVintagePivot
	}
	return &Analyzer{
		overlapRatio: overlapRatio,
		vintagePivot: vintagePivot,
		enricher:     enricher,
		log:          log,
	}
}

// Analyze turns positioned tokens into the final analysis. The wine list
// is complete before enrichment runs, so an enrichment failure degrades to
// the un-enriched list with the failure flagged, never to an error. No
// tokens means no wines, not a failure.
func (a *Analyzer) Analyze(ctx context.Context, tokens []layout.Token) wine.Analysis {
	start := time.Now()

	rows := layout.BuildRows(tokens, a.overlapRatio)
	items := menu.ParseRows(rows)
	if items == nil {
		items = []*wine.Item{} // "no wines found" serializes as [], not null
	}
	for i, it := range items {
		normalized := menu.Normalize(*it, a.vintagePivot)
		items[i] = &normalized
	}

	analysis := wine.Analysis{
		RawText: layout.JoinText(rows),
		Wines:   items,
	}

	if a.enricher != nil && len(items) > 0 {
		analysis.EnrichmentFailed = a.enricher.EnrichItems(ctx, items)
	}

	a.log.Info("analysis complete",
		"tokens", len(tokens),
		"rows", len(rows),
		"wines", len(items),
		"enrichmentFailed", analysis.EnrichmentFailed,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return analysis
}
