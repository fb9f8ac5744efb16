package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/adapters/sqlite"
	"github.com/aretw0/quire/pkg/core"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func setupRepo(t *testing.T) (*sqlite.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "notes.db")
	repo, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, path
}

func note(id, author string, created time.Time) core.Note {
	return core.Note{
		ID:        id,
		Title:     "title " + id,
		Content:   "content " + id,
		Author:    author,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestRepository_SaveGetDelete(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)

	require.NoError(t, repo.Save(ctx, note("n1", alice, created)))

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "title n1", got.Title)
	assert.Equal(t, alice, got.Author)
	assert.True(t, created.Equal(got.CreatedAt), "nanosecond timestamps survive")

	got.Content = "changed"
	got.UpdatedAt = created.Add(time.Minute)
	require.NoError(t, repo.Save(ctx, got))

	again, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "changed", again.Content)
	assert.True(t, created.Equal(again.CreatedAt))
	assert.True(t, created.Add(time.Minute).Equal(again.UpdatedAt))

	require.NoError(t, repo.Delete(ctx, "n1"))
	_, err = repo.Get(ctx, "n1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), core.ErrNotFound)
}

func TestRepository_ListAndListByAuthor(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, repo.Save(ctx, note("b", alice, base.Add(2*time.Hour))))
	require.NoError(t, repo.Save(ctx, note("a", alice, base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, note("c", bob, base)))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.ListByAuthor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "a", mine[0].ID)

	none, err := repo.ListByAuthor(ctx, "0xcccccccccccccccccccccccccccccccccccccccc")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_Reopen(t *testing.T) {
	repo, path := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, note("persisted", alice, time.Now())))
	require.NoError(t, repo.Close())

	reopened, err := sqlite.Open(sqlite.Config{Path: path})
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.Initialize(ctx))

	got, err := reopened.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, "content persisted", got.Content)
}

func TestRepository_ReadOnly(t *testing.T) {
	writer, path := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, writer.Save(ctx, note("n1", alice, time.Now())))
	require.NoError(t, writer.Close())

	repo, err := sqlite.Open(sqlite.Config{Path: path, ReadOnly: true})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Initialize(ctx))

	assert.ErrorIs(t, repo.Save(ctx, note("n2", alice, time.Now())), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), core.ErrReadOnly)

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestRepository_InMemory(t *testing.T) {
	repo, err := sqlite.Open(sqlite.Config{Path: ":memory:"})
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()
	require.NoError(t, repo.Initialize(ctx))

	require.NoError(t, repo.Save(ctx, note("m", bob, time.Now())))
	got, err := repo.Get(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, bob, got.Author)
}

func TestRepository_ConcurrentSaves(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, repo.Save(ctx, note(id, alice, time.Now())))
		}(i)
	}
	wg.Wait()

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, notes, 20)
}

func TestRepository_State(t *testing.T) {
	repo, path := setupRepo(t)
	require.NoError(t, repo.Save(context.Background(), note("n1", alice, time.Now())))

	state, ok := repo.State().(sqlite.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, int64(1), state.WritesTotal)
	assert.False(t, state.ReadOnly)
	assert.Equal(t, "sqlite-repository", repo.ComponentType())
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := sqlite.Open(sqlite.Config{})
	assert.Error(t, err)
}
