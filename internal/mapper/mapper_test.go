package mapper

import (
	"testing"
	"time"

	"discharge-care-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPatientMapperCopiesMedications(t *testing.T) {
	m := NewPatientMapper()
	e := &entity.Patient{
		Id:            uuid.New(),
		PatientName:   "John Smith",
		DischargeDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Medications:   []string{"Lisinopril 10mg", "Aspirin 81mg"},
	}

	back := m.ToEntity(m.ToModel(e))
	back.Medications[0] = "changed"

	assert.Equal(t, "Lisinopril 10mg", e.Medications[0])
	assert.Nil(t, back.UpdatedAt)
	assert.Nil(t, m.ToEntity(nil))
}

func TestDocumentChunkMapperVector(t *testing.T) {
	m := NewDocumentChunkMapper()
	e := &entity.DocumentChunk{
		SourceId:       "wound-care.txt",
		ChunkIndex:     2,
		EmbeddingValue: []float32{0.1, 0.2},
		Metadata:       map[string]interface{}{"sourceId": "wound-care.txt"},
	}

	mod := m.ToModel(e)
	assert.Equal(t, []float32{0.1, 0.2}, mod.EmbeddingValue.Slice())
	assert.Equal(t, "wound-care.txt", mod.Metadata["sourceId"])
	assert.Equal(t, 2, m.ToEntity(mod).ChunkIndex)
}

func TestInteractionMapperType(t *testing.T) {
	m := NewInteractionMapper()
	mod := m.ToModel(&entity.Interaction{MessageType: entity.InteractionHandoff})
	assert.Equal(t, "agent_handoff", mod.MessageType)
	assert.Equal(t, entity.InteractionHandoff, m.ToEntity(mod).MessageType)
}
