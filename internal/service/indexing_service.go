package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/pkg/rag/index"
)

const (
	IndexOutcomeIndexed = "indexed"
	IndexOutcomeSkipped = "skipped"
	IndexOutcomeFailed  = "failed"
)

var ErrKnowledgeDirMissing = errors.New("knowledge directory does not exist")

// IndexObserver is satisfied by *metrics.Metrics.
type IndexObserver interface {
	ObserveIndex(outcome string)
}

type IIndexingService interface {
	IndexDocument(ctx context.Context, req *dto.IndexDocumentRequest) (*dto.IndexDocumentResponse, error)
	QueueDocument(ctx context.Context, req *dto.IndexDocumentRequest) (*dto.IndexQueuedResponse, error)
	IndexDirectory(ctx context.Context, dir string) (*dto.IndexDirectoryResponse, error)
	CountChunks(ctx context.Context) (int64, error)
}

type indexingService struct {
	chunkIndex index.ChunkIndex
	publisher  IPublisherService
	observer   IndexObserver
	logger     logger.ILogger
}

func NewIndexingService(
	chunkIndex index.ChunkIndex,
	publisher IPublisherService,
	observer IndexObserver,
	logger logger.ILogger,
) IIndexingService {
	return &indexingService{
		chunkIndex: chunkIndex,
		publisher:  publisher,
		observer:   observer,
		logger:     logger,
	}
}

func (s *indexingService) IndexDocument(ctx context.Context, req *dto.IndexDocumentRequest) (*dto.IndexDocumentResponse, error) {
	res, err := s.chunkIndex.Index(ctx, index.Document{
		SourceID: req.SourceId,
		Text:     req.Text,
		Metadata: req.Metadata,
	})
	if err != nil {
		s.observe(IndexOutcomeFailed)
		s.logger.Error("INDEXING", "Failed to index document", map[string]interface{}{
			"source_id": req.SourceId,
			"error":     err.Error(),
		})
		return nil, err
	}

	if res.Skipped {
		s.observe(IndexOutcomeSkipped)
	} else {
		s.observe(IndexOutcomeIndexed)
		s.logger.Info("INDEXING", "Document indexed", map[string]interface{}{
			"source_id": res.SourceID,
			"chunks":    res.Chunks,
		})
	}

	return &dto.IndexDocumentResponse{
		SourceId:    res.SourceID,
		ContentHash: res.ContentHash,
		Chunks:      res.Chunks,
		Skipped:     res.Skipped,
	}, nil
}

func (s *indexingService) QueueDocument(ctx context.Context, req *dto.IndexDocumentRequest) (*dto.IndexQueuedResponse, error) {
	if s.publisher == nil {
		return nil, fmt.Errorf("index queue is not configured")
	}

	payload, err := json.Marshal(dto.PublishIndexDocumentMessage{
		SourceId: req.SourceId,
		Text:     req.Text,
		Metadata: req.Metadata,
	})
	if err != nil {
		return nil, err
	}

	jobId, err := s.publisher.Publish(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("queue index job: %w", err)
	}

	return &dto.IndexQueuedResponse{JobId: jobId, SourceId: req.SourceId}, nil
}

// IndexDirectory indexes every .txt and .md file under dir. Source ids are
// slash-separated paths relative to dir, so restarts re-use the same ids and
// unchanged files are skipped by content hash. A failing file is counted and
// logged; the walk continues.
func (s *indexingService) IndexDirectory(ctx context.Context, dir string) (*dto.IndexDirectoryResponse, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrKnowledgeDirMissing, dir)
	}

	out := &dto.IndexDirectoryResponse{
		Directory: dir,
		Documents: []dto.IndexDocumentResponse{},
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isReferenceFile(path) {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			out.Failed++
			s.logger.Warn("INDEXING", "Failed to read reference file", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = filepath.Base(path)
		}

		res, err := s.IndexDocument(ctx, &dto.IndexDocumentRequest{
			SourceId: filepath.ToSlash(rel),
			Text:     string(raw),
			Metadata: map[string]string{"path": path},
		})
		if err != nil {
			out.Failed++
			return nil
		}
		if res.Skipped {
			out.Skipped++
		} else {
			out.Indexed++
		}
		out.Documents = append(out.Documents, *res)
		return nil
	})
	if err != nil {
		return out, err
	}

	s.logger.Info("INDEXING", "Knowledge directory indexed", map[string]interface{}{
		"dir":     dir,
		"indexed": out.Indexed,
		"skipped": out.Skipped,
		"failed":  out.Failed,
	})
	return out, nil
}

func (s *indexingService) CountChunks(ctx context.Context) (int64, error) {
	return s.chunkIndex.Count(ctx)
}

func (s *indexingService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveIndex(outcome)
	}
}

func isReferenceFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}
