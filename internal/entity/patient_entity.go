package entity

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Id                    uuid.UUID
	PatientName           string
	DischargeDate         time.Time
	PrimaryDiagnosis      string
	Medications           []string
	DietaryRestrictions   string
	FollowUp              string
	WarningSigns          string
	DischargeInstructions string
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}
