package service

import (
	"context"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/logger"
)

// SessionCounter is satisfied by *memory.SessionRepository.
type SessionCounter interface {
	Count() int
}

type ISystemService interface {
	Status(ctx context.Context) *dto.SystemStatusResponse
}

type SystemInfo struct {
	IndexBackend    string
	LLMProvider     string
	SearchProviders []string
}

type systemService struct {
	patients IPatientService
	indexer  IIndexingService
	sessions SessionCounter
	info     SystemInfo
	logger   logger.ILogger
}

func NewSystemService(
	patients IPatientService,
	indexer IIndexingService,
	sessions SessionCounter,
	info SystemInfo,
	logger logger.ILogger,
) ISystemService {
	return &systemService{
		patients: patients,
		indexer:  indexer,
		sessions: sessions,
		info:     info,
		logger:   logger,
	}
}

// Status never fails; unreachable dependencies show up as zero counts and
// Database=false.
func (s *systemService) Status(ctx context.Context) *dto.SystemStatusResponse {
	res := &dto.SystemStatusResponse{
		Database:        true,
		ActiveSessions:  s.sessions.Count(),
		IndexBackend:    s.info.IndexBackend,
		LLMProvider:     s.info.LLMProvider,
		SearchProviders: s.info.SearchProviders,
	}
	if res.SearchProviders == nil {
		res.SearchProviders = []string{}
	}

	if n, err := s.patients.Count(ctx); err != nil {
		res.Database = false
		s.logger.Warn("SYSTEM", "Patient count unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		res.Patients = n
	}

	if n, err := s.indexer.CountChunks(ctx); err != nil {
		s.logger.Warn("SYSTEM", "Chunk count unavailable", map[string]interface{}{"error": err.Error()})
	} else {
		res.IndexedChunks = n
	}

	return res
}
