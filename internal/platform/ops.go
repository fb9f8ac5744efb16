package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/quire/pkg/adapters/fs"
	"github.com/aretw0/quire/pkg/adapters/redis"
	"github.com/aretw0/quire/pkg/adapters/sqlite"
	"github.com/aretw0/quire/pkg/core"
)

// Init builds and initializes the repository selected by the options.
// The 'uri' argument is adapter-specific: a directory for fs, a database file for sqlite,
// a redis:// URL for redis.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initRepository(uri, o)
}

func initRepository(uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	var (
		repo core.Repository
		err  error
	)
	switch o.adapter {
	case AdapterFS:
		repo = initFS(uri, o)
	case AdapterSQLite:
		repo, err = initSQLite(uri, o)
	case AdapterRedis:
		repo, err = initRedis(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Initialize(context.Background()); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	o.log().Debug("repository initialized", "adapter", o.adapter)
	return repo, nil
}

// initFS handles path resolution and Git detection for the filesystem adapter.
func initFS(path string, o *options) core.Repository {
	autoInit, _ := o.config["auto_init"].(bool)
	gitless, gitlessSet := o.config["gitless"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	readOnly, _ := o.config["read_only"].(bool)

	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}
	bypassSafety := readOnly || !devSafety

	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveStorePath(path, useTemp)
	if useTemp && filepath.Clean(path) != resolved {
		o.log().Warn("running in SAFE MODE (dev sandbox)", "original_path", path, "resolved_path", resolved)
	}

	if systemDir == "" {
		systemDir = ".quire"
	}

	// Without an explicit choice, an existing .git turns versioning on and a fresh
	// store stays plain files.
	if !gitlessSet {
		_, err := os.Stat(filepath.Join(resolved, ".git"))
		gitless = err != nil
		if gitless {
			o.log().Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolved,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     readOnly,
		Logger:       o.logger,
		SystemDir:    systemDir,
		ErrorHandler: errorHandler,
	})
}

func initSQLite(path string, o *options) (core.Repository, error) {
	readOnly, _ := o.config["read_only"].(bool)
	return sqlite.Open(sqlite.Config{
		Path:     path,
		ReadOnly: readOnly,
		Logger:   o.logger,
	})
}

func initRedis(url string, o *options) (core.Repository, error) {
	readOnly, _ := o.config["read_only"].(bool)
	prefix, _ := o.config["redis_prefix"].(string)
	cfg := redis.Config{
		Prefix:   prefix,
		ReadOnly: readOnly,
		Logger:   o.logger,
	}
	if o.redisClient != nil {
		cfg.Client = o.redisClient
		return redis.NewRepository(cfg), nil
	}
	return redis.Open(url, cfg)
}

// ParseDatabaseURL maps a DATABASE_URL onto an adapter name and its uri.
//
//	sqlite:///notes.db      -> sqlite, notes.db (relative)
//	sqlite:////tmp/notes.db -> sqlite, /tmp/notes.db
//	redis://host:6379/0     -> redis, unchanged
//	file:///srv/notes       -> fs, /srv/notes
//	./notes                 -> fs, ./notes
func ParseDatabaseURL(raw string) (adapter, uri string, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", fmt.Errorf("database url is empty")
	}

	scheme, rest, found := strings.Cut(raw, "://")
	if !found {
		return AdapterFS, raw, nil
	}

	switch strings.ToLower(scheme) {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url has no path: %s", raw)
		}
		return AdapterSQLite, path, nil
	case "redis", "rediss":
		return AdapterRedis, raw, nil
	case "file":
		if rest == "" {
			return "", "", fmt.Errorf("file url has no path: %s", raw)
		}
		return AdapterFS, rest, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme %q", scheme)
	}
}

// Open parses databaseURL and returns a service on the matching adapter.
// An explicit WithAdapter in opts is overridden by the URL scheme.
func Open(databaseURL string, opts ...Option) (*core.Service, error) {
	adapter, uri, err := ParseDatabaseURL(databaseURL)
	if err != nil {
		return nil, err
	}
	return New(uri, append(opts, WithAdapter(adapter))...)
}
