package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/pkg/serverutils"
	"discharge-care-be/internal/service"
)

type patientCreator interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
}

func loadReports(path string) ([]dto.CreatePatientRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var reports []dto.CreatePatientRequest
	if err := json.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("%s is not a JSON array of patient reports: %w", path, err)
	}
	return reports, nil
}

// seedReports creates every valid report. Duplicates and invalid entries count as skipped.
func seedReports(ctx context.Context, patients patientCreator, reports []dto.CreatePatientRequest) (created, skipped int) {
	for i := range reports {
		report := &reports[i]
		if err := serverutils.ValidateRequest(report); err != nil {
			log.Printf("Warn: Report %d is invalid, skipping: %v", i, err)
			skipped++
			continue
		}

		if _, err := patients.Create(ctx, report); err != nil {
			if errors.Is(err, service.ErrPatientExists) {
				log.Printf("Patient '%s' already exists, skipping...", report.PatientName)
			} else {
				log.Printf("Warn: Failed to create patient '%s': %v", report.PatientName, err)
			}
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}
