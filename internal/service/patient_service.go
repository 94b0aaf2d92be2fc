package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"discharge-care-be/internal/dto"
	"discharge-care-be/internal/entity"
	"discharge-care-be/internal/pkg/logger"
	"discharge-care-be/internal/repository/specification"
	"discharge-care-be/internal/repository/unitofwork"
	"discharge-care-be/pkg/store"

	"github.com/google/uuid"
)

const dischargeDateLayout = "2006-01-02"

// ErrPatientExists is returned by Create when a report for the same name is already stored.
var ErrPatientExists = errors.New("patient already exists")

type IPatientService interface {
	// FindPatientByName backs the receptionist's lookup capability.
	FindPatientByName(ctx context.Context, name string) (store.PatientMatch, error)
	Lookup(ctx context.Context, req *dto.PatientLookupRequest) (*dto.PatientLookupResponse, error)
	GetAll(ctx context.Context) ([]*dto.PatientResponse, error)
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Count(ctx context.Context) (int64, error)
}

type patientService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewPatientService(uowFactory unitofwork.RepositoryFactory, logger logger.ILogger) IPatientService {
	return &patientService{
		uowFactory: uowFactory,
		logger:     logger,
	}
}

// FindPatientByName tries an exact case-insensitive match first, then a
// substring match. A single substring hit is treated as found; several hits
// are returned as candidates for the caller to disambiguate.
func (s *patientService) FindPatientByName(ctx context.Context, name string) (store.PatientMatch, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.PatientRepository()

	exact, err := repo.FindOne(ctx, specification.ByPatientNameExact{Name: name})
	if err != nil {
		return store.PatientMatch{}, fmt.Errorf("find patient: %w", err)
	}
	if exact != nil {
		return store.PatientMatch{Patient: toPatientContext(exact)}, nil
	}

	similar, err := repo.FindAll(ctx,
		specification.ByPatientNameContains{Name: name},
		specification.OrderBy{Field: "patient_name"},
		specification.Pagination{Limit: 5},
	)
	if err != nil {
		return store.PatientMatch{}, fmt.Errorf("find similar patients: %w", err)
	}

	switch len(similar) {
	case 0:
		return store.PatientMatch{}, nil
	case 1:
		return store.PatientMatch{Patient: toPatientContext(similar[0])}, nil
	}

	candidates := make([]string, len(similar))
	for i, p := range similar {
		candidates[i] = p.PatientName
	}
	return store.PatientMatch{Candidates: candidates}, nil
}

func (s *patientService) Lookup(ctx context.Context, req *dto.PatientLookupRequest) (*dto.PatientLookupResponse, error) {
	match, err := s.FindPatientByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if !match.Found() {
		return &dto.PatientLookupResponse{Found: false, Candidates: match.Candidates}, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByPatientNameExact{Name: match.Patient.PatientName})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return &dto.PatientLookupResponse{Found: false}, nil
	}
	return &dto.PatientLookupResponse{Found: true, Patient: toPatientResponse(patient)}, nil
}

func (s *patientService) GetAll(ctx context.Context) ([]*dto.PatientResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	patients, err := uow.PatientRepository().FindAll(ctx, specification.OrderBy{Field: "patient_name"})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PatientResponse, 0, len(patients))
	for _, p := range patients {
		res = append(res, toPatientResponse(p))
	}
	return res, nil
}

func (s *patientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	dischargeDate, err := time.Parse(dischargeDateLayout, req.DischargeDate)
	if err != nil {
		return nil, fmt.Errorf("invalid discharge_date: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.PatientRepository().FindOne(ctx, specification.ByPatientNameExact{Name: req.PatientName})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %q", ErrPatientExists, req.PatientName)
	}

	patient := &entity.Patient{
		Id:                    uuid.New(),
		PatientName:           req.PatientName,
		DischargeDate:         dischargeDate,
		PrimaryDiagnosis:      req.PrimaryDiagnosis,
		Medications:           req.Medications,
		DietaryRestrictions:   req.DietaryRestrictions,
		FollowUp:              req.FollowUp,
		WarningSigns:          req.WarningSigns,
		DischargeInstructions: req.DischargeInstructions,
		CreatedAt:             time.Now(),
	}
	if patient.Medications == nil {
		patient.Medications = []string{}
	}

	if err := uow.PatientRepository().Create(ctx, patient); err != nil {
		return nil, err
	}

	s.logger.Info("PATIENT", "Patient report created", map[string]interface{}{
		"patient_id": patient.Id.String(),
	})
	return toPatientResponse(patient), nil
}

func (s *patientService) Count(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.PatientRepository().Count(ctx)
}

func toPatientContext(p *entity.Patient) *store.PatientContext {
	meds := make([]string, len(p.Medications))
	copy(meds, p.Medications)
	return &store.PatientContext{
		PatientName:           p.PatientName,
		DischargeDate:         p.DischargeDate.Format(dischargeDateLayout),
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           meds,
		DietaryRestrictions:   p.DietaryRestrictions,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
	}
}

func toPatientResponse(p *entity.Patient) *dto.PatientResponse {
	meds := p.Medications
	if meds == nil {
		meds = []string{}
	}
	return &dto.PatientResponse{
		Id:                    p.Id,
		PatientName:           p.PatientName,
		DischargeDate:         p.DischargeDate.Format(dischargeDateLayout),
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           meds,
		DietaryRestrictions:   p.DietaryRestrictions,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
		CreatedAt:             p.CreatedAt,
	}
}
