package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stonescan/stonescan-be/internal/storage"
)

// ReportServiceProvider defines the interface for report services.
type ReportServiceProvider interface {
	ListReports(email string) ([]models.Report, error)
	AddReport(email, name string, prediction models.Prediction, createdAt string) (models.Report, error)
	DeleteReport(email, id string) error
}

// ReportService provides per-user CRUD over saved reports. Each user's list
// lives under their email in the report store.
type ReportService struct {
	store  storage.Store
	events EventServiceProvider
}

// NewReportService creates a new ReportService.
func NewReportService(store storage.Store, events EventServiceProvider) *ReportService {
	return &ReportService{store: store, events: events}
}

// ListReports returns the owner's reports in insertion order. A missing or
// unreadable store reads as an empty list.
func (s *ReportService) ListReports(email string) ([]models.Report, error) {
	var reports []models.Report
	err := s.store.Get(storage.BucketReports, email, &reports)
	if err != nil {
		if err == storage.ErrKeyNotFound || err == storage.ErrStoreMissing {
			return []models.Report{}, nil
		}
		return nil, err
	}
	if reports == nil {
		reports = []models.Report{}
	}
	return reports, nil
}

// AddReport assigns a fresh id, appends the report to the owner's list and
// persists it.
func (s *ReportService) AddReport(email, name string, prediction models.Prediction, createdAt string) (models.Report, error) {
	var reports []models.Report
	err := s.store.Get(storage.BucketReports, email, &reports)
	if err != nil && err != storage.ErrKeyNotFound && err != storage.ErrStoreMissing {
		return models.Report{}, err
	}

	report := models.Report{
		ID:         uuid.New().String(),
		Name:       name,
		Prediction: prediction,
		CreatedAt:  createdAt,
	}
	reports = append(reports, report)

	if err := s.store.Put(storage.BucketReports, email, reports); err != nil {
		return models.Report{}, err
	}

	s.events.Record("report.created", "info", fmt.Sprintf("Report %q saved", name), &email)
	return report, nil
}

// DeleteReport removes the matching entry from the owner's list. Deleting an
// id that is not present succeeds as a no-op; only a missing store document
// is an error.
func (s *ReportService) DeleteReport(email, id string) error {
	var reports []models.Report
	err := s.store.Get(storage.BucketReports, email, &reports)
	if err != nil {
		if err == storage.ErrStoreMissing {
			return ErrReportStoreMissing
		}
		if err == storage.ErrKeyNotFound {
			return nil
		}
		return err
	}

	kept := reports[:0]
	for _, r := range reports {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	removed := len(reports) - len(kept)

	if err := s.store.Put(storage.BucketReports, email, kept); err != nil {
		return err
	}

	if removed > 0 {
		s.events.Record("report.deleted", "info", fmt.Sprintf("Report %s deleted", id), &email)
	}
	return nil
}
