package dto

import (
	"time"

	"github.com/google/uuid"
)

type PatientResponse struct {
	Id                    uuid.UUID `json:"id"`
	PatientName           string    `json:"patient_name"`
	DischargeDate         string    `json:"discharge_date"`
	PrimaryDiagnosis      string    `json:"primary_diagnosis"`
	Medications           []string  `json:"medications"`
	DietaryRestrictions   string    `json:"dietary_restrictions"`
	FollowUp              string    `json:"follow_up"`
	WarningSigns          string    `json:"warning_signs"`
	DischargeInstructions string    `json:"discharge_instructions"`
	CreatedAt             time.Time `json:"created_at"`
}

// CreatePatientRequest is also the record shape of the seed file.
type CreatePatientRequest struct {
	PatientName           string   `json:"patient_name" validate:"required,max=255"`
	DischargeDate         string   `json:"discharge_date" validate:"required,datetime=2006-01-02"`
	PrimaryDiagnosis      string   `json:"primary_diagnosis" validate:"required"`
	Medications           []string `json:"medications"`
	DietaryRestrictions   string   `json:"dietary_restrictions"`
	FollowUp              string   `json:"follow_up"`
	WarningSigns          string   `json:"warning_signs"`
	DischargeInstructions string   `json:"discharge_instructions"`
}

type PatientLookupRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type PatientLookupResponse struct {
	Found      bool             `json:"found"`
	Patient    *PatientResponse `json:"patient,omitempty"`
	Candidates []string         `json:"candidates,omitempty"`
}
