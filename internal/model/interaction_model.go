package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Interaction struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   string            `gorm:"type:varchar(64);not null;index"`
	PatientName string            `gorm:"type:varchar(255);index"`
	Agent       string            `gorm:"type:varchar(50)"`
	MessageType string            `gorm:"type:varchar(50);index"`
	Message     string            `gorm:"type:text"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime;index"`
}

func (Interaction) TableName() string {
	return "interactions"
}
