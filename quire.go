package quire

import (
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aretw0/quire/internal/platform"
	"github.com/aretw0/quire/pkg/core"
)

// --- Configuration ---

// Option defines a functional option for configuring Quire.
type Option = platform.Option

// WithAutoInit enables automatic initialization of the store (creates directory and git init).
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables Git versioning of the fs store.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist ensures the store directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter selects the storage adapter by name ("fs", "sqlite", "redis").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithRedisClient makes the redis adapter reuse an existing client.
func WithRedisClient(client goredis.UniversalClient) Option {
	return platform.WithRedisClient(client)
}

// WithSystemDir sets the hidden directory of the fs store (default ".quire").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer size of Watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithClock overrides the time source for note timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// --- Factory ---

// New creates a Service on the adapter chosen by WithAdapter (fs by default).
func New(uri string, opts ...Option) (*core.Service, error) {
	return platform.New(uri, opts...)
}

// Open creates a Service from a DATABASE_URL such as sqlite:///notes.db or redis://host:6379/0.
func Open(databaseURL string, opts ...Option) (*core.Service, error) {
	return platform.Open(databaseURL, opts...)
}

// Init initializes a repository explicitly.
func Init(uri string, opts ...Option) (core.Repository, error) {
	return platform.Init(uri, opts...)
}

// FindStoreRoot looks upwards from startDir for a directory holding .quire, .git or quire.yaml.
func FindStoreRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
