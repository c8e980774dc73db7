// Package infrastructure assembles the shared runtime the domain
// modules build on: lifecycle coordination, the process logger, the
// database pool, and blob storage.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/database"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/lifecycle"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/storage"
)

// Infrastructure is the dependency bundle every domain module receives.
// Modules derive their own scoped loggers from Logger.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New constructs the systems without starting them. Start wires them
// into the lifecycle afterwards, once the caller is ready.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database and storage startup and shutdown hooks
// with the coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}
