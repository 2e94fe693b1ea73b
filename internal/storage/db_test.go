package storage

import (
	"path/filepath"
	"testing"
	"time"

	"winescan/internal/enrich"
	"winescan/internal/wine"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache", "enrich.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutGetRoundTrip(t *testing.T) {
	db := openTestDB(t)

	entry := enrich.Entry{
		Key:   "chateau margaux",
		Found: true,
		Fields: enrich.Fields{
			Region:  wine.StrPtr("Bordeaux"),
			Grape:   wine.StrPtr("Cabernet Sauvignon"),
			Vintage: wine.IntPtr(2018),
		},
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := db.Put(entry.Key, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := db.Get(entry.Key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if !got.Found {
		t.Error("found bit lost")
	}
	if got.Fields.Region == nil || *got.Fields.Region != "Bordeaux" {
		t.Errorf("region: got %v", got.Fields.Region)
	}
	if got.Fields.Vintage == nil || *got.Fields.Vintage != 2018 {
		t.Errorf("vintage: got %v", got.Fields.Vintage)
	}
	if !got.FetchedAt.Equal(entry.FetchedAt) {
		t.Errorf("fetchedAt: got %v want %v", got.FetchedAt, entry.FetchedAt)
	}
}

func TestGetMiss(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected miss")
	}
}

func TestPutReplacesExisting(t *testing.T) {
	db := openTestDB(t)

	first := enrich.Entry{Key: "barolo", Found: false, FetchedAt: time.Now()}
	if err := db.Put(first.Key, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := enrich.Entry{
		Key:       "barolo",
		Found:     true,
		Fields:    enrich.Fields{Grape: wine.StrPtr("Nebbiolo")},
		FetchedAt: time.Now(),
	}
	if err := db.Put(second.Key, second); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := db.Get("barolo")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !got.Found || got.Fields.Grape == nil || *got.Fields.Grape != "Nebbiolo" {
		t.Errorf("expected the second write to win, got %+v", got)
	}
}

func TestNegativeEntryRoundTrip(t *testing.T) {
	db := openTestDB(t)

	entry := enrich.Entry{Key: "obscure cuvee", Found: false, FetchedAt: time.Now()}
	if err := db.Put(entry.Key, entry); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := db.Get(entry.Key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Found {
		t.Error("negative entry came back positive")
	}
}
