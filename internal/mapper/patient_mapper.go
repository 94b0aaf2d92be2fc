package mapper

import (
	"time"

	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/model"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(p *model.Patient) *entity.Patient {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	meds := make([]string, len(p.Medications))
	copy(meds, p.Medications)

	return &entity.Patient{
		Id:                    p.Id,
		PatientName:           p.PatientName,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           meds,
		DietaryRestrictions:   p.DietaryRestrictions,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *PatientMapper) ToModel(p *entity.Patient) *model.Patient {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Patient{
		Id:                    p.Id,
		PatientName:           p.PatientName,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           p.Medications,
		DietaryRestrictions:   p.DietaryRestrictions,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             updatedAt,
	}
}

func (m *PatientMapper) ToEntities(patients []*model.Patient) []*entity.Patient {
	entities := make([]*entity.Patient, len(patients))
	for i, p := range patients {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
