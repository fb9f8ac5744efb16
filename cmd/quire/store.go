package main

import (
	"log/slog"

	"github.com/aretw0/quire/internal/config"
	"github.com/aretw0/quire/internal/platform"
	"github.com/aretw0/quire/pkg/core"
)

// openService opens the store named by the configuration.
// A bare "." fs store is resolved to the enclosing store root when there is one.
func openService(cfg *config.Config, logger *slog.Logger) (*core.Service, error) {
	url := cfg.ResolvedDatabaseURL()
	if adapter, uri, err := platform.ParseDatabaseURL(url); err == nil && adapter == platform.AdapterFS && uri == "." {
		if root, err := platform.FindRoot("."); err == nil {
			url = root
		}
	}

	return platform.Open(url,
		platform.WithLogger(logger),
		platform.WithAutoInit(cfg.Store.AutoInit),
		platform.WithVersioning(cfg.Store.Versioning),
		platform.WithReadOnly(cfg.Store.ReadOnly),
		platform.WithSystemDir(cfg.Store.SystemDir),
		platform.WithRedisPrefix(cfg.Store.RedisPrefix),
		// The binary operates on the store it was pointed at.
		platform.WithDevSafety(false),
	)
}

func closeService(svc *core.Service) {
	if c, ok := svc.Repository().(core.Closer); ok {
		_ = c.Close()
	}
}
