package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/taskbox/internal/config"
	"github.com/hpungsan/taskbox/internal/db"
	"github.com/hpungsan/taskbox/internal/logger"
	"github.com/hpungsan/taskbox/internal/snapshot"
)

// dataDirEnv overrides the default data directory.
const dataDirEnv = "TASKBOX_DATA_DIR"

// runtime holds what one invocation opens: config, store, snapshots, logger.
type runtime struct {
	baseDir   string
	cfg       *config.Config
	store     *db.Store
	snapshots *snapshot.Manager
	log       *logger.StdLogger
}

// defaultBaseDir returns $TASKBOX_DATA_DIR or ~/.taskbox.
func defaultBaseDir() (string, error) {
	if dir := os.Getenv(dataDirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".taskbox"), nil
}

// open loads config and initializes the store under baseDir. It is a no-op
// once the runtime has a store.
func (rt *runtime) open(baseDir string) error {
	if rt.store != nil {
		return nil
	}

	if baseDir == "" {
		var err error
		if baseDir, err = defaultBaseDir(); err != nil {
			return err
		}
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := db.Init(baseDir)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	rt.baseDir = baseDir
	rt.cfg = cfg
	rt.store = store
	rt.snapshots = snapshot.NewManager(store.Path(), cfg.ResolveSnapshotDir(baseDir))
	if rt.log == nil {
		rt.log = logger.New(os.Stderr, cfg.Verbose)
	}
	return nil
}
