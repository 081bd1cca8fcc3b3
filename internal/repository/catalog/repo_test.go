package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeTempCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tiles.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp catalog: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	repo := New(writeTempCatalog(t, sampleCSV), zap.NewNop())

	catalog := repo.Load(context.Background())
	if len(catalog) != 3 {
		t.Fatalf("expected 3 products, got %d", len(catalog))
	}
}

// Load is idempotent: once a non-empty catalog is loaded, the source file is
// not re-read.
func TestLoad_Idempotent(t *testing.T) {
	path := writeTempCatalog(t, sampleCSV)
	repo := New(path, zap.NewNop())

	first := repo.Load(context.Background())
	if first.Empty() {
		t.Fatal("expected non-empty catalog")
	}

	// Removing the source must not affect subsequent loads.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	second := repo.Load(context.Background())
	if len(second) != len(first) {
		t.Fatalf("expected cached catalog of %d products, got %d", len(first), len(second))
	}
}

// A missing source yields an empty catalog, not an error; the empty state is
// valid and queryable.
func TestLoad_MissingFile(t *testing.T) {
	repo := New(filepath.Join(t.TempDir(), "nope.csv"), zap.NewNop())

	catalog := repo.Load(context.Background())
	if !catalog.Empty() {
		t.Fatalf("expected empty catalog, got %d products", len(catalog))
	}
}

// While the catalog is empty, Load keeps re-attempting the source, so the
// service recovers once the file appears.
func TestLoad_RetriesWhileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "late.csv")
	repo := New(path, zap.NewNop())

	if !repo.Load(context.Background()).Empty() {
		t.Fatal("expected empty catalog before the source exists")
	}

	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if repo.Load(context.Background()).Empty() {
		t.Fatal("expected catalog after the source appeared")
	}
}
