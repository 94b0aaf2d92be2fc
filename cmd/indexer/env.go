package main

import (
	"context"
	"fmt"

	"discharge-care-be/internal/bootstrap"
	"discharge-care-be/internal/config"
	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/internal/service"
	"discharge-care-be/pkg/database"
	"discharge-care-be/pkg/rag/index"
)

// env holds what every subcommand needs. Nothing here is queued: index
// jobs run inline, so the indexing service has no publisher.
type env struct {
	cfg      *config.Config
	log      *logger.ZapLogger
	index    index.ChunkIndex
	indexing service.IIndexingService
}

func newEnv() (*env, error) {
	cfg := config.Load()
	if backend != "" {
		cfg.Rag.IndexBackend = backend
	}

	log := logger.NewNopLogger()
	if verbose {
		log = logger.NewZapLogger(cfg.App.LogFilePath, false)
	}

	var uowFactory unitofwork.RepositoryFactory
	if cfg.Rag.IndexBackend == "pgvector" {
		if cfg.Database.Connection == "" {
			return nil, fmt.Errorf("INDEX_BACKEND=pgvector needs DB_CONNECTION_STRING")
		}
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		uowFactory = unitofwork.NewRepositoryFactory(db)
	}

	chunkIndex := bootstrap.NewChunkIndex(cfg, uowFactory, bootstrap.NewEmbeddingProvider(cfg, log), log)

	return &env{
		cfg:      cfg,
		log:      log,
		index:    chunkIndex,
		indexing: service.NewIndexingService(chunkIndex, nil, nil, log),
	}, nil
}

func (e *env) persistent() bool {
	return e.cfg.Rag.IndexBackend == "pgvector"
}

// warm fills a memory index from KNOWLEDGE_DIR. It is a no-op for pgvector.
func (e *env) warm(ctx context.Context) (*dto.IndexDirectoryResponse, error) {
	if e.persistent() {
		return nil, nil
	}
	return e.indexing.IndexDirectory(ctx, e.cfg.Rag.KnowledgeDir)
}

func (e *env) close() {
	_ = e.log.Sync()
}
