package mapper

import (
	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/model"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) ToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}
	return &entity.Interaction{
		Id:          i.Id,
		SessionId:   i.SessionId,
		PatientName: i.PatientName,
		Agent:       i.Agent,
		MessageType: entity.InteractionType(i.MessageType),
		Message:     i.Message,
		Metadata:    map[string]interface{}(i.Metadata),
		CreatedAt:   i.CreatedAt,
	}
}

func (m *InteractionMapper) ToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}
	return &model.Interaction{
		Id:          i.Id,
		SessionId:   i.SessionId,
		PatientName: i.PatientName,
		Agent:       i.Agent,
		MessageType: string(i.MessageType),
		Message:     i.Message,
		Metadata:    i.Metadata,
		CreatedAt:   i.CreatedAt,
	}
}
