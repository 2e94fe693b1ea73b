// Package enrich fills missing wine fields from an external LLM backend,
// strictly best-effort: one batched call per analysis run, deduplicated by
// a normalized name key through a two-level cache, with a single-flight
// discipline so concurrent uploads of the same menu never duplicate calls.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"winescan/internal/wine"
)

// FlagNoEnrichment annotates items whose key had no enrichment available.
const FlagNoEnrichment = "no_enrichment"

// Enricher deduplicates, batches, and caches enrichment lookups.
type Enricher struct {
	client  Client
	cache   *Cache
	log     *slog.Logger
	timeout time.Duration
	stats   *Stats

	claims *claimRegistry
}

func New(client Client, cache *Cache, log *slog.Logger, timeout time.Duration) *Enricher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Enricher{
		client:  client,
		cache:   cache,
		log:     log,
		timeout: timeout,
		stats:   NewStats(time.Hour),
		claims:  newClaimRegistry(),
	}
}

// Stats exposes the rolling latency statistics of external calls.
func (e *Enricher) Stats() *Stats { return e.stats }

// EnrichItems fills missing fields on the items where the backend knows
// the wine, returning true when the batch call failed. The item list, its
// ordering, and all pre-enrichment field values are preserved regardless
// of the outcome; a failure is reported, never raised.
func (e *Enricher) EnrichItems(ctx context.Context, items []*wine.Item) (failed bool) {
	// One key may cover several items (duplicate names across sections).
	byKey := make(map[string][]*wine.Item)
	repName := make(map[string]string)
	var order []string
	for _, it := range items {
		if it.Name == nil || *it.Name == "" {
			continue
		}
		key := Key(*it.Name)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
			repName[key] = *it.Name
		}
		byKey[key] = append(byKey[key], it)
	}
	if len(order) == 0 {
		return false
	}

	resolved := make(map[string]Entry, len(order))
	var unresolved []string
	for _, key := range order {
		if entry, ok := e.cache.Lookup(key); ok {
			resolved[key] = entry
		} else {
			unresolved = append(unresolved, key)
		}
	}

	if len(unresolved) > 0 {
		failed = e.dispatch(ctx, unresolved, repName)
		for _, key := range unresolved {
			if entry, ok := e.cache.Lookup(key); ok {
				resolved[key] = entry
			}
		}
	}

	for _, key := range order {
		entry, ok := resolved[key]
		if !ok {
			continue
		}
		for _, it := range byKey[key] {
			if entry.Found {
				entry.Fields.Apply(it)
			} else {
				it.Flag("enrichment", FlagNoEnrichment)
			}
		}
	}
	return failed
}

// dispatch performs the single batched external call for the keys this run
// claims. Keys already in flight on another run are awaited instead of
// re-fetched; the claim registry guarantees at most one external call per
// key at a time. Returns true on batch failure.
func (e *Enricher) dispatch(ctx context.Context, keys []string, repName map[string]string) bool {
	owned, foreign := e.claims.claim(keys)
	defer e.claims.release(owned)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	if len(owned) > 0 {
		g.Go(func() error {
			return e.fetchBatch(ctx, owned, repName)
		})
	}
	for _, done := range foreign {
		done := done
		g.Go(func() error {
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		e.log.Warn("enrichment batch failed", "keys", len(keys), "error", err)
		return true
	}
	return false
}

// fetchBatch calls the backend once for the owned keys and populates both
// cache levels, negative results included.
func (e *Enricher) fetchBatch(ctx context.Context, keys []string, repName map[string]string) error {
	names := make([]string, len(keys))
	for i, key := range keys {
		names[i] = repName[key]
	}

	var payload map[string]Fields
	var err error
	start := time.Now()
	for attempt := 0; attempt < maxRetries; attempt++ {
		payload, err = e.client.EnrichNames(ctx, names)
		if err == nil || !isRetryable(err) {
			break
		}
		e.log.Warn("retryable enrichment error", "attempt", attempt, "error", err)
		select {
		case <-time.After(backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	e.stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return err
	}

	now := time.Now()
	for i, key := range keys {
		fields, ok := payload[names[i]]
		entry := Entry{Key: key, Found: ok, Fields: fields, FetchedAt: now}
		if putErr := e.cache.Put(entry); putErr != nil {
			e.log.Warn("cache store write failed", "key", key, "error", putErr)
		}
	}
	return nil
}
