package service

import (
	"context"
	"time"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/specification"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/pkg/interaction"

	"github.com/google/uuid"
)

type IInteractionService interface {
	interaction.Sink
	GetBySession(ctx context.Context, sessionId string, limit int) ([]*dto.InteractionResponse, error)
}

// interactionService persists journal records to the interactions table.
type interactionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	timeout    time.Duration
}

func NewInteractionService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IInteractionService {
	return &interactionService{
		uowFactory: uowFactory,
		logger:     logger,
		timeout:    5 * time.Second,
	}
}

func (s *interactionService) Record(ctx context.Context, rec interaction.Record) {
	rec = interaction.Stamp(rec)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	uow := s.uowFactory.NewUnitOfWork(writeCtx)
	err := uow.InteractionRepository().Create(writeCtx, &entity.Interaction{
		Id:          uuid.New(),
		SessionId:   rec.SessionID,
		PatientName: rec.PatientName,
		Agent:       rec.Agent,
		MessageType: entity.InteractionType(rec.MessageType),
		Message:     rec.Text,
		Metadata:    rec.Metadata,
		CreatedAt:   rec.Timestamp,
	})
	if err != nil {
		s.logger.Warn("INTERACTION", "Failed to persist interaction", map[string]interface{}{
			"session_id":   rec.SessionID,
			"message_type": rec.MessageType,
			"error":        err.Error(),
		})
	}
}

func (s *interactionService) GetBySession(ctx context.Context, sessionId string, limit int) ([]*dto.InteractionResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.InteractionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.InteractionResponse, 0, len(rows))
	for _, r := range rows {
		res = append(res, &dto.InteractionResponse{
			SessionId:   r.SessionId,
			PatientName: r.PatientName,
			Agent:       r.Agent,
			MessageType: string(r.MessageType),
			Message:     r.Message,
			Metadata:    r.Metadata,
			CreatedAt:   r.CreatedAt,
		})
	}
	return res, nil
}
