package backend

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/core"
	"tracker/internal/ledger"
	"tracker/internal/ledger/memory"
	"tracker/internal/services"
	"tracker/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger    *slog.Logger
	config    Config
	publisher services.EventPublisher
}

// NewFactory creates a new backend factory. publisher may be nil.
func NewFactory(logger *slog.Logger, config Config, publisher services.EventPublisher) (*DefaultFactory, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.Type == SQLiteBackend && config.SQLiteDSN == "" {
		config.SQLiteDSN = storage.MemoryDSN
	}
	return &DefaultFactory{
		logger:    logger,
		config:    config,
		publisher: publisher,
	}, nil
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, sessionID string) (*services.TransactionService, error) {
	var (
		store ledger.Store
		err   error
	)
	switch f.config.Type {
	case SQLiteBackend:
		store, err = storage.NewSeededRepository(ctx, f.config.SQLiteDSN, core.SeedTransactions())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
	case MemoryBackend:
		store = memory.New(core.SeedTransactions())
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", f.config.Type)
	}

	svc := services.NewTransactionService(sessionID, store, f.publisher)
	if err := svc.Announce(ctx); err != nil {
		f.logger.WarnContext(ctx, "Failed to announce new session store", "session_id", sessionID, "error", err)
	}

	f.logger.DebugContext(ctx, "Created session store",
		"session_id", sessionID,
		"backend", f.config.Type.String(),
		"events_enabled", f.publisher != nil)

	return svc, nil
}
