package cli

import (
	"fmt"
	"time"

	"github.com/kvnsw/photosieve/internal/config"
	"github.com/kvnsw/photosieve/internal/engine"
	"github.com/kvnsw/photosieve/internal/store"
)

// openAll is the composition root shared by the serve/batch/cooldowns
// commands: config, database, cooldown store, and engine, wired once.
// The caller must Close the returned DB.
func openAll() (config.Config, *store.DB, *store.CooldownStore, *engine.Engine, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Database.Path
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return cfg, nil, nil, nil, fmt.Errorf("resolve db path: %w", err)
		}
	}

	db, err := store.Open(dbPath)
	if err != nil {
		return cfg, nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	cooldowns := store.NewCooldownStore(db)
	cooldowns.Window = time.Duration(cfg.Batch.CooldownHours) * time.Hour

	eng := engine.New(cooldowns)

	return cfg, db, cooldowns, eng, nil
}
