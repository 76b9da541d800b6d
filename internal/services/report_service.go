package services

import (
	"inmocrm/internal/authz"
	"inmocrm/internal/models"
)

// PipelineSummary is the funnel snapshot the dashboards render: how
// many records sit in each stage of the pipeline.
type PipelineSummary struct {
	Leads        map[models.LeadStatus]int        `json:"leads"`
	Lots         map[models.LotStatus]int         `json:"lots"`
	Reservations map[models.ReservationStatus]int `json:"reservations"`
}

// ReportService aggregates pipeline counts and scope-filtered listings.
type ReportService struct {
	leads        LeadRepo
	lots         LotRepo
	reservations ReservationRepo
}

func NewReportService(leads LeadRepo, lots LotRepo, reservations ReservationRepo) *ReportService {
	return &ReportService{leads: leads, lots: lots, reservations: reservations}
}

func (s *ReportService) Summary() (*PipelineSummary, error) {
	leadCounts, err := s.leads.CountByStatus()
	if err != nil {
		return nil, err
	}
	lotCounts, err := s.lots.CountByStatus()
	if err != nil {
		return nil, err
	}
	resCounts, err := s.reservations.CountByStatus()
	if err != nil {
		return nil, err
	}
	return &PipelineSummary{
		Leads:        leadCounts,
		Lots:         lotCounts,
		Reservations: resCounts,
	}, nil
}

// Reservations lists reservations inside the caller's visibility scope.
func (s *ReportService) Reservations(scope authz.Scope, f models.ReservationFilter, limit, offset int) ([]*models.Reservation, error) {
	if !scope.Unrestricted() {
		f.AdvisorIDs = append([]int64{scope.ActorID}, scope.AdvisorIDs...)
	}
	return s.reservations.Filter(f, limit, offset)
}
