package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/specification"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/pkg/database"
	"discharge-care-be/pkg/embedding"
	"discharge-care-be/pkg/rag/index"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openDB connects to DB_CONNECTION_STRING. The schema must already exist
// (go run ./cmd/migrate).
func openDB(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, "silent")
	require.NoError(t, err, "Failed to connect to DB")
	return db
}

func TestGormConnection(t *testing.T) {
	db := openDB(t)
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.PatientRepository())
	assert.NotNil(t, uow.InteractionRepository())
	assert.NotNil(t, uow.DocumentChunkRepository())

	sqlDB, _ := db.DB()
	assert.NoError(t, sqlDB.Ping())
}

func TestPatientRepository(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	suffix := uuid.NewString()[:8]
	patient := &entity.Patient{
		Id:               uuid.New(),
		PatientName:      "Integration Patient " + suffix,
		DischargeDate:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PrimaryDiagnosis: "Community-acquired pneumonia",
		Medications:      []string{"Amoxicillin 500mg", "Paracetamol as needed"},
		FollowUp:         "GP in 7 days",
		WarningSigns:     "Shortness of breath, fever above 39C",
	}

	// Rolled back so the table stays clean.
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	require.NoError(t, uow.PatientRepository().Create(ctx, patient))

	t.Run("exact match ignores case", func(t *testing.T) {
		got, err := uow.PatientRepository().FindOne(ctx, specification.ByPatientNameExact{Name: "  integration PATIENT " + suffix})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, patient.Id, got.Id)
		assert.Equal(t, patient.Medications, got.Medications)
		assert.Equal(t, "2024-03-01", got.DischargeDate.Format("2006-01-02"))
	})

	t.Run("contains match", func(t *testing.T) {
		got, err := uow.PatientRepository().FindAll(ctx, specification.ByPatientNameContains{Name: suffix})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, patient.PatientName, got[0].PatientName)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		got, err := uow.PatientRepository().FindAll(ctx, specification.ByPatientNameContains{Name: "%" + suffix + "_"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestInteractionRepository(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	sessionId := "it-" + uuid.NewString()
	now := time.Now()
	for i, kind := range []entity.InteractionType{entity.InteractionUserInput, entity.InteractionAgentResponse} {
		err := uow.InteractionRepository().Create(ctx, &entity.Interaction{
			Id:          uuid.New(),
			SessionId:   sessionId,
			Agent:       "receptionist",
			MessageType: kind,
			Message:     "message",
			Metadata:    map[string]interface{}{"turn": i},
			CreatedAt:   now.Add(time.Duration(i) * time.Millisecond),
		})
		require.NoError(t, err)
	}

	count, err := uow.InteractionRepository().Count(ctx, specification.BySessionID{SessionID: sessionId})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	rows, err := uow.InteractionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entity.InteractionUserInput, rows[0].MessageType)
	assert.Equal(t, entity.InteractionAgentResponse, rows[1].MessageType)
}

func TestPgVectorIndex(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()
	factory := unitofwork.NewRepositoryFactory(db)

	idx := index.NewPgVectorIndex(
		factory,
		embedding.NewHashingProvider(embedding.Dimensions),
		index.Options{ChunkSize: 200, ChunkOverlap: 20},
		logger.NewNopLogger(),
	)

	marker := uuid.NewString()
	sourceId := "integration/" + marker + ".txt"
	text := "Integration marker " + marker + ". Keep the surgical wound dry and covered for two days."
	t.Cleanup(func() {
		_ = factory.NewUnitOfWork(ctx).DocumentChunkRepository().DeleteBySourceId(ctx, sourceId)
	})

	first, err := idx.Index(ctx, index.Document{SourceID: sourceId, Text: text})
	require.NoError(t, err)
	assert.False(t, first.Skipped)
	assert.Equal(t, 1, first.Chunks)

	second, err := idx.Index(ctx, index.Document{SourceID: sourceId, Text: text})
	require.NoError(t, err)
	assert.True(t, second.Skipped)

	hits, err := idx.Search(ctx, text, 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, sourceId, hits[0].SourceID)
	assert.InDelta(t, 0.0, hits[0].Distance, 1e-4)
}
