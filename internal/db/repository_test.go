package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStorePutGet(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(ctx, "agencies/missing"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "agencies/test-agency", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "agencies/test-agency", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := store.Get(ctx, "agencies/test-agency")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(got) != `{"a":2}` {
		t.Fatalf("unexpected value %s", got)
	}
}

func TestStoreCount(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	for _, key := range []string{"titles/title-5", "titles/title-7", "titles/title-5"} {
		if err := store.Put(ctx, key, []byte(`{}`)); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
}
