package unitofwork

import (
	"context"

	"discharge-care-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	PatientRepository() contract.PatientRepository
	InteractionRepository() contract.InteractionRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
