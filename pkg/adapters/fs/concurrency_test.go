package fs_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrency_ExternalVsInternal simulates a "noisy neighbor": the OS rewrites
// stray files while the repository saves notes and a watcher observes.
// The store must not panic, and every note it lists must parse.
func TestConcurrency_ExternalVsInternal(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	repo, dir := setupRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup

	// External actor writes garbage Markdown next to the notes.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ctx.Err() == nil {
			path := filepath.Join(dir, fmt.Sprintf("noise-%d.md", rand.Intn(10)))
			_ = os.WriteFile(path, []byte(fmt.Sprintf("Noise %d", time.Now().UnixNano())), 0644)
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}()

	// Internal actors save notes for two wallets.
	for _, author := range []string{alice, bob} {
		wg.Add(1)
		go func(author string) {
			defer wg.Done()
			for ctx.Err() == nil {
				id := fmt.Sprintf("data-%s-%d", author[2:6], rand.Intn(10))
				_ = repo.Save(context.Background(), note(id, author, time.Now()))
				time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
			}
		}(author)
	}

	stream, err := repo.Watch(ctx, "**")
	require.NoError(t, err)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range stream {
		}
	}()

	wg.Wait()

	notes, err := repo.List(context.Background())
	require.NoError(t, err)
	for _, n := range notes {
		assert.Contains(t, []string{alice, bob}, n.Author, "noise files must never surface as notes")
	}

	mine, err := repo.ListByAuthor(context.Background(), alice)
	require.NoError(t, err)
	for _, n := range mine {
		assert.Equal(t, alice, n.Author)
	}
	t.Logf("survived with %d notes", len(notes))
}
