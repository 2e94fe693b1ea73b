package enrich

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"winescan/internal/wine"
)

type fakeClient struct {
	mu      sync.Mutex
	calls   int32
	batches [][]string
	result  map[string]Fields
	err     error
	delay   time.Duration
}

func (f *fakeClient) EnrichNames(ctx context.Context, names []string) (map[string]Fields, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.batches = append(f.batches, names)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnricher(client Client) *Enricher {
	return New(client, NewCache(nil), discardLog(), 5*time.Second)
}

func namedItem(name string) *wine.Item {
	return &wine.Item{RawText: name, Name: wine.StrPtr(name)}
}

func TestKey_NormalizesVariants(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{a: "Château Margaux", b: "chateau   margaux"},
		{a: "CHÂTEAU MARGAUX", b: "chateau margaux"},
		{a: "  Côte-Rôtie ", b: "cote-rotie"},
	}
	for _, tc := range cases {
		if Key(tc.a) != Key(tc.b) {
			t.Errorf("expected %q and %q to share a key: %q vs %q", tc.a, tc.b, Key(tc.a), Key(tc.b))
		}
	}
}

func TestEnrichItems_DedupSingleCall(t *testing.T) {
	client := &fakeClient{result: map[string]Fields{
		"Château Margaux": {Region: wine.StrPtr("Bordeaux")},
	}}
	e := newTestEnricher(client)

	items := []*wine.Item{
		namedItem("Château Margaux"),
		namedItem("chateau   margaux"),
	}
	if failed := e.EnrichItems(context.Background(), items); failed {
		t.Fatal("unexpected batch failure")
	}
	if got := atomic.LoadInt32(&client.calls); got != 1 {
		t.Fatalf("expected exactly 1 external call, got %d", got)
	}
	if len(client.batches[0]) != 1 {
		t.Fatalf("expected 1 distinct name in batch, got %v", client.batches[0])
	}
	for i, it := range items {
		if it.Region == nil || *it.Region != "Bordeaux" {
			t.Errorf("item %d: expected enriched region, got %v", i, it.Region)
		}
	}
}

func TestEnrichItems_FailureIsolation(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	e := newTestEnricher(client)

	items := []*wine.Item{namedItem("Barolo"), namedItem("Chianti")}
	items[0].Region = wine.StrPtr("Piedmont")

	failed := e.EnrichItems(context.Background(), items)
	if !failed {
		t.Fatal("expected batch failure flag")
	}
	if len(items) != 2 {
		t.Fatalf("item list length changed: %d", len(items))
	}
	if items[0].Region == nil || *items[0].Region != "Piedmont" {
		t.Error("pre-enrichment field was altered on failure")
	}
	if items[1].Region != nil {
		t.Error("field filled despite failure")
	}
}

func TestEnrichItems_CachedKeySkipsBackend(t *testing.T) {
	client := &fakeClient{result: map[string]Fields{
		"Barolo": {Grape: wine.StrPtr("Nebbiolo")},
	}}
	e := newTestEnricher(client)

	first := []*wine.Item{namedItem("Barolo")}
	e.EnrichItems(context.Background(), first)
	second := []*wine.Item{namedItem("BAROLO")}
	e.EnrichItems(context.Background(), second)

	if got := atomic.LoadInt32(&client.calls); got != 1 {
		t.Fatalf("expected cached second run, got %d calls", got)
	}
	if second[0].Grape == nil || *second[0].Grape != "Nebbiolo" {
		t.Errorf("expected cache hit to enrich, got %v", second[0].Grape)
	}
}

func TestEnrichItems_NegativeResultCached(t *testing.T) {
	// Backend returns nothing for the name: cached as a miss, not re-asked.
	client := &fakeClient{result: map[string]Fields{}}
	e := newTestEnricher(client)

	items := []*wine.Item{namedItem("Obscure Cuvée")}
	e.EnrichItems(context.Background(), items)
	e.EnrichItems(context.Background(), []*wine.Item{namedItem("Obscure Cuvée")})

	if got := atomic.LoadInt32(&client.calls); got != 1 {
		t.Fatalf("expected negative result cached, got %d calls", got)
	}
	if items[0].Flags["enrichment"] != FlagNoEnrichment {
		t.Errorf("expected no-enrichment annotation, got %v", items[0].Flags)
	}
}

func TestEnrichItems_SingleFlightUnderConcurrency(t *testing.T) {
	client := &fakeClient{
		result: map[string]Fields{"Barolo": {Grape: wine.StrPtr("Nebbiolo")}},
		delay:  50 * time.Millisecond,
	}
	e := newTestEnricher(client)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.EnrichItems(context.Background(), []*wine.Item{namedItem("Barolo")})
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&client.calls); got != 1 {
		t.Fatalf("expected one in-flight call for overlapping keys, got %d", got)
	}
}

func TestEnrichItems_NamelessItemsSkipped(t *testing.T) {
	client := &fakeClient{result: map[string]Fields{}}
	e := newTestEnricher(client)

	items := []*wine.Item{{RawText: "gl 12 btl 45"}}
	if failed := e.EnrichItems(context.Background(), items); failed {
		t.Fatal("unexpected failure")
	}
	if got := atomic.LoadInt32(&client.calls); got != 0 {
		t.Fatalf("expected no calls for nameless items, got %d", got)
	}
}

func TestFieldsApply_FillsMissingOnly(t *testing.T) {
	it := namedItem("Barolo")
	it.Region = wine.StrPtr("Piedmont")
	it.Flag("grape", wine.FlagUnknown)

	f := Fields{
		Region:  wine.StrPtr("WRONG"),
		Grape:   wine.StrPtr("Nebbiolo"),
		Vintage: wine.IntPtr(2016),
	}
	f.Apply(it)

	if *it.Region != "Piedmont" {
		t.Error("existing region overwritten")
	}
	if it.Grape == nil || *it.Grape != "Nebbiolo" {
		t.Errorf("expected grape filled, got %v", it.Grape)
	}
	if _, flagged := it.Flags["grape"]; flagged {
		t.Error("expected grape flag cleared after fill")
	}
	if it.Vintage == nil || *it.Vintage != 2016 {
		t.Errorf("expected vintage filled, got %v", it.Vintage)
	}
}

func TestFieldsApply_ImplausibleVintageRejected(t *testing.T) {
	it := namedItem("Barolo")
	Fields{Vintage: wine.IntPtr(1002)}.Apply(it)
	if it.Vintage != nil {
		t.Errorf("expected implausible vintage rejected, got %d", *it.Vintage)
	}
}
