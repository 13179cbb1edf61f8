package catalog

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "reports", "upload_catalog.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpen_CreatesSchema(t *testing.T) {
	c := openTestCatalog(t)

	n, err := c.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
	if _, err := os.Stat(c.Path()); err != nil {
		t.Errorf("catalog file not created: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	c, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Record(ctx, Entry{Path: "data/a.fits", SizeBytes: 10, Checksum: "sha256:x", RunID: "r1"}); err != nil {
		t.Fatal(err)
	}
	c.Close()

	c2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer c2.Close()

	n, err := c2.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}
}

func TestRecord_UpsertsByPath(t *testing.T) {
	ctx := context.Background()
	c := openTestCatalog(t)

	first := Entry{Path: "data/b.fits", SizeBytes: 100, Checksum: "sha256:old", RunID: "r1", RecordedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	second := Entry{Path: "data/b.fits", SizeBytes: 200, Checksum: "sha256:new", RunID: "r2", RecordedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)}
	other := Entry{Path: "data/a.fits", SizeBytes: 50, Checksum: "sha256:a", RunID: "r2"}

	for _, e := range []Entry{first, second, other} {
		if err := c.Record(ctx, e); err != nil {
			t.Fatalf("Record(%s) error = %v", e.Path, err)
		}
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Path != "data/a.fits" {
		t.Errorf("entries[0].Path = %q, want data/a.fits (ordered by path)", entries[0].Path)
	}
	got := entries[1]
	if got.SizeBytes != 200 || got.Checksum != "sha256:new" || got.RunID != "r2" {
		t.Errorf("upserted entry = %+v", got)
	}
	if !got.RecordedAt.Equal(second.RecordedAt) {
		t.Errorf("RecordedAt = %v, want %v", got.RecordedAt, second.RecordedAt)
	}
	if entries[0].RecordedAt.IsZero() {
		t.Error("zero RecordedAt should be filled on insert")
	}
}

func TestRecord_RequiresPath(t *testing.T) {
	c := openTestCatalog(t)
	if err := c.Record(context.Background(), Entry{}); err == nil {
		t.Error("Record() expected error for empty path")
	}
}

func TestChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.fits")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Checksum(path)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}
	want := "sha256:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("Checksum() = %q, want %q", got, want)
	}

	if _, err := Checksum(filepath.Join(t.TempDir(), "missing")); err == nil || !strings.Contains(err.Error(), "opening") {
		t.Errorf("Checksum(missing) error = %v", err)
	}
}
