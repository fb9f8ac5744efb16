package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/adapters/redis"
	"github.com/aretw0/quire/pkg/core"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

func setupRepo(t *testing.T, opts ...func(*redis.Config)) (*redis.Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := redis.Config{Client: goredis.NewClient(&goredis.Options{Addr: mr.Addr()})}
	for _, opt := range opts {
		opt(&cfg)
	}
	repo := redis.NewRepository(cfg)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Initialize(context.Background()))
	return repo, mr
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
	repo, mr := setupRepo(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, note("n1", alice, created)))
	assert.True(t, mr.Exists("quire:note:n1"))

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "content n1", got.Content)
	assert.Equal(t, alice, got.Author)
	assert.True(t, created.Equal(got.CreatedAt))

	require.NoError(t, repo.Delete(ctx, "n1"))
	assert.False(t, mr.Exists("quire:note:n1"))
	_, err = repo.Get(ctx, "n1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), core.ErrNotFound)

	members, err := mr.ZMembers("quire:author:" + alice)
	if err == nil {
		assert.Empty(t, members)
	}
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
	assert.Equal(t, "b", mine[1].ID)

	theirs, err := repo.ListByAuthor(ctx, bob)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, "title c", theirs[0].Title)
}

func TestRepository_SaveMovesAuthorIndex(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()
	n := note("n1", alice, time.Now())
	require.NoError(t, repo.Save(ctx, n))

	n.Author = bob
	require.NoError(t, repo.Save(ctx, n))

	mine, err := repo.ListByAuthor(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, mine)
	theirs, err := repo.ListByAuthor(ctx, bob)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}

func TestRepository_ListSkipsUndecodable(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, note("ok", alice, time.Now())))

	_, err := mr.ZAdd("quire:notes", 1, "junk")
	require.NoError(t, err)
	require.NoError(t, mr.Set("quire:note:junk", "\xc1"))
	_, err = mr.ZAdd("quire:notes", 2, "ghost")
	require.NoError(t, err)

	notes, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "ok", notes[0].ID)
}

func TestRepository_Prefix(t *testing.T) {
	repo, mr := setupRepo(t, func(c *redis.Config) { c.Prefix = "tenant" })
	require.NoError(t, repo.Save(context.Background(), note("n1", alice, time.Now())))
	assert.True(t, mr.Exists("tenant:note:n1"))
	assert.False(t, mr.Exists("quire:note:n1"))
}

func TestRepository_ReadOnly(t *testing.T) {
	repo, _ := setupRepo(t, func(c *redis.Config) { c.ReadOnly = true })
	ctx := context.Background()
	assert.ErrorIs(t, repo.Save(ctx, note("n1", alice, time.Now())), core.ErrReadOnly)
	assert.ErrorIs(t, repo.Delete(ctx, "n1"), core.ErrReadOnly)
}

func TestRepository_InitializeFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	repo := redis.NewRepository(redis.Config{Client: goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})})
	defer repo.Close()
	assert.Error(t, repo.Initialize(context.Background()))
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	repo, err := redis.Open("redis://"+mr.Addr()+"/0", redis.Config{})
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.Initialize(context.Background()))

	_, err = redis.Open("http://nope", redis.Config{})
	assert.Error(t, err)
}

func TestRepository_State(t *testing.T) {
	repo, _ := setupRepo(t)
	require.NoError(t, repo.Save(context.Background(), note("n1", alice, time.Now())))

	state, ok := repo.State().(redis.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, "quire", state.Prefix)
	assert.Equal(t, int64(1), state.WritesTotal)
	assert.Equal(t, "redis-repository", repo.ComponentType())
}
