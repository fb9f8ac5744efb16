// Package redis stores notes in Redis. Each note is a msgpack blob; sorted sets scored by
// creation time index all notes and the notes of each author.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/introspection"
	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aretw0/quire/pkg/core"
)

const defaultPrefix = "quire"

// Config holds the configuration for the Redis repository.
type Config struct {
	Client   goredis.UniversalClient
	Prefix   string // key namespace, default "quire"
	ReadOnly bool
	Logger   *slog.Logger
}

// Repository implements core.Repository and core.AuthorLister on Redis.
type Repository struct {
	client goredis.UniversalClient
	config Config
	writes atomic.Int64
}

// record is the stored form of a note.
type record struct {
	ID        string    `msgpack:"id"`
	Title     string    `msgpack:"title"`
	Content   string    `msgpack:"content"`
	Author    string    `msgpack:"author"`
	CreatedAt time.Time `msgpack:"created_at"`
	UpdatedAt time.Time `msgpack:"updated_at"`
}

// NewRepository wraps an existing client. It performs no I/O.
func NewRepository(config Config) *Repository {
	if config.Prefix == "" {
		config.Prefix = defaultPrefix
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{client: config.Client, config: config}
}

// Open parses a redis:// or rediss:// URL and returns a repository on a new client.
func Open(url string, config Config) (*Repository, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	config.Client = goredis.NewClient(opts)
	return NewRepository(config), nil
}

func (r *Repository) noteKey(id string) string     { return r.config.Prefix + ":note:" + id }
func (r *Repository) allKey() string               { return r.config.Prefix + ":notes" }
func (r *Repository) authorKey(addr string) string { return r.config.Prefix + ":author:" + addr }

// Initialize checks connectivity.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.client == nil {
		return errors.New("redis client is nil")
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Save stores the note and updates both indexes in one MULTI/EXEC.
func (r *Repository) Save(ctx context.Context, n core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if n.ID == "" {
		return fmt.Errorf("note has no ID")
	}

	data, err := msgpack.Marshal(record(n))
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}

	previous, err := r.Get(ctx, n.ID)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}

	score := float64(n.CreatedAt.UnixNano())
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, r.noteKey(n.ID), data, 0)
		pipe.ZAdd(ctx, r.allKey(), goredis.Z{Score: score, Member: n.ID})
		if previous.Author != "" && previous.Author != n.Author {
			pipe.ZRem(ctx, r.authorKey(previous.Author), n.ID)
		}
		pipe.ZAdd(ctx, r.authorKey(n.Author), goredis.Z{Score: score, Member: n.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save note %s: %w", n.ID, err)
	}
	r.writes.Add(1)
	return nil
}

// Get retrieves a note by its ID.
func (r *Repository) Get(ctx context.Context, id string) (core.Note, error) {
	data, err := r.client.Get(ctx, r.noteKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}
	if err != nil {
		return core.Note{}, fmt.Errorf("failed to get note %s: %w", id, err)
	}
	return decode(data)
}

// List returns all notes ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]core.Note, error) {
	return r.listIndex(ctx, r.allKey())
}

// ListByAuthor implements core.AuthorLister.
func (r *Repository) ListByAuthor(ctx context.Context, author string) ([]core.Note, error) {
	return r.listIndex(ctx, r.authorKey(author))
}

func (r *Repository) listIndex(ctx context.Context, index string) ([]core.Note, error) {
	ids, err := r.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", index, err)
	}
	notes := make([]core.Note, 0, len(ids))
	if len(ids) == 0 {
		return notes, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.noteKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue // deleted between ZRANGE and MGET
		}
		n, err := decode([]byte(s))
		if err != nil {
			r.config.Logger.Warn("failed to decode note during list", "id", ids[i], "error", err)
			continue
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// Delete removes a note and its index entries.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	n, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, r.noteKey(id))
		pipe.ZRem(ctx, r.allKey(), id)
		pipe.ZRem(ctx, r.authorKey(n.Author), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete note %s: %w", id, err)
	}
	r.writes.Add(1)
	return nil
}

// Close closes the underlying client.
func (r *Repository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

func decode(data []byte) (core.Note, error) {
	var rec record
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return core.Note{}, fmt.Errorf("failed to decode note: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return core.Note(rec), nil
}

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Prefix      string `json:"prefix"`
	ReadOnly    bool   `json:"read_only"`
	TotalConns  uint32 `json:"total_connections"`
	IdleConns   uint32 `json:"idle_connections"`
	WritesTotal int64  `json:"writes_total"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	s := RepositoryState{
		Prefix:      r.config.Prefix,
		ReadOnly:    r.config.ReadOnly,
		WritesTotal: r.writes.Load(),
	}
	if r.client != nil {
		if stats := r.client.PoolStats(); stats != nil {
			s.TotalConns = stats.TotalConns
			s.IdleConns = stats.IdleConns
		}
	}
	return s
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "redis-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
var _ core.AuthorLister = (*Repository)(nil)
