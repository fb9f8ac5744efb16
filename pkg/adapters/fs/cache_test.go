package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCache_Load(t *testing.T) {
	t.Run("Starts Empty if File Missing", func(t *testing.T) {
		tmpDir := t.TempDir()
		c := newCache(tmpDir, ".cache")

		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty entries, got %d", c.Len())
		}
	})

	t.Run("Loads Valid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheDir := filepath.Join(tmpDir, ".cache")
		os.MkdirAll(cacheDir, 0755)

		jsonContent := `{
			"version": 1,
			"entries": {
				"note1.md": {"id": "note1", "author": "0xabc", "title": "Title 1"}
			}
		}`
		os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte(jsonContent), 0644)

		c := newCache(tmpDir, ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		entry, ok := c.index.Entries["note1.md"]
		if !ok {
			t.Fatal("Expected entry note1.md not found")
		}
		if entry.Author != "0xabc" || entry.Title != "Title 1" {
			t.Errorf("unexpected entry: %+v", entry)
		}
	})

	t.Run("Resets on Corrupted JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheDir := filepath.Join(tmpDir, ".cache")
		os.MkdirAll(cacheDir, 0755)
		os.WriteFile(filepath.Join(cacheDir, "index.json"), []byte("{not json"), 0644)

		c := newCache(tmpDir, ".cache")
		if err := c.Load(); err != nil {
			t.Fatalf("Load should self-heal, got: %v", err)
		}
		if c.Len() != 0 {
			t.Errorf("Expected empty entries after corruption, got %d", c.Len())
		}
	})
}

func TestCache_Freshness(t *testing.T) {
	c := newCache(t.TempDir(), ".cache")
	mtime := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	c.Set("a.md", &indexEntry{ID: "a", Author: "0xabc", LastModified: mtime})

	if _, ok := c.Get("a.md", mtime); !ok {
		t.Error("expected hit for identical mtime")
	}
	if _, ok := c.Get("a.md", mtime.Add(time.Second)); ok {
		t.Error("expected miss for newer mtime")
	}
	if _, ok := c.Get("b.md", mtime); ok {
		t.Error("expected miss for unknown file")
	}
}

func TestCache_SavePruneRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	c := newCache(tmpDir, ".cache")
	mtime := time.Now().UTC().Truncate(time.Second)

	c.Set("a.md", &indexEntry{ID: "a", Author: "0xabc", LastModified: mtime})
	c.Set("b.md", &indexEntry{ID: "b", Author: "0xdef", LastModified: mtime})
	c.Prune(map[string]bool{"a.md": true})
	if err := c.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := newCache(tmpDir, ".cache")
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Len() != 1 {
		t.Fatalf("expected 1 entry after prune, got %d", reloaded.Len())
	}
	if _, ok := reloaded.Get("a.md", mtime); !ok {
		t.Error("expected a.md to survive the round trip")
	}

	reloaded.Delete("a.md")
	if reloaded.Len() != 0 {
		t.Error("expected Delete to remove the entry")
	}
}
