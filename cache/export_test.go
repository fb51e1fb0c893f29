package cache

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache(0)
	c.Set("hash1:de", "Hallo.")
	c.Set("hash2:de", "Welt.")

	var buf bytes.Buffer
	exporter := NewExporter(c)
	if err := exporter.Export(&buf, map[string]string{"model": "gpt-4o-mini"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %q", export.Version)
	}
	if export.Tool != "changeling" {
		t.Errorf("Expected tool stamp, got %q", export.Tool)
	}
	if len(export.Entries) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(export.Entries))
	}
	if export.Metadata["model"] != "gpt-4o-mini" {
		t.Errorf("Unexpected metadata: %v", export.Metadata)
	}
	if export.ExportedAt == "" {
		t.Error("Expected exported_at timestamp")
	}
}

func TestExporter_UnsupportedCache(t *testing.T) {
	exporter := NewExporter(&RedisCache{})

	var buf bytes.Buffer
	if err := exporter.Export(&buf, nil); err == nil {
		t.Error("Expected error for non-exportable cache type")
	}
}

func TestImporter_Import(t *testing.T) {
	data := `{
		"version": "1.0",
		"exported_at": "2026-01-15T12:00:00Z",
		"entries": [
			{"key": "hash1:de", "value": "Hallo."},
			{"key": "hash2:fr", "value": "Bonjour."}
		],
		"metadata": {"source": "ci"}
	}`

	c := NewInMemoryCache(0)
	importer := NewImporter(c)
	result, err := importer.Import(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Imported != 2 || result.Failed != 0 {
		t.Errorf("Expected 2 imported / 0 failed, got %d / %d", result.Imported, result.Failed)
	}
	if result.Metadata["source"] != "ci" {
		t.Errorf("Unexpected metadata: %v", result.Metadata)
	}

	if value, ok := c.Get("hash1:de"); !ok || value != "Hallo." {
		t.Errorf("Expected imported entry, got %q (found=%v)", value, ok)
	}
}

func TestImporter_InvalidJSON(t *testing.T) {
	importer := NewImporter(NewInMemoryCache(0))

	if _, err := importer.Import(strings.NewReader("not json")); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := NewInMemoryCache(0)
	src.Set("hash1:de", "Hallo.")
	src.Set("hash2:de", "Welt.")

	path := filepath.Join(t.TempDir(), "cache.json")
	if err := NewExporter(src).ExportToFile(path, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := NewInMemoryCache(0)
	result, err := NewImporter(dst).ImportFromFile(path)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", result.Imported)
	}

	for key, want := range src.Entries() {
		if got, ok := dst.Get(key); !ok || got != want {
			t.Errorf("Entry %q: got %q (found=%v), want %q", key, got, ok, want)
		}
	}
}
