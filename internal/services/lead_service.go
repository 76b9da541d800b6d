package services

import (
	"log"
	"time"

	"inmocrm/internal/apperr"
	"inmocrm/internal/authz"
	"inmocrm/internal/models"
	"inmocrm/internal/repositories"
)

// LeadService owns the lead lifecycle: capture, status changes, the
// expiration sweep and the recycle path.
type LeadService struct {
	repo     LeadRepo
	clients  ClientRepo
	notifier Notifier
	now      func() time.Time
}

func NewLeadService(repo LeadRepo, clients ClientRepo, notifier Notifier) *LeadService {
	return &LeadService{repo: repo, clients: clients, notifier: notifier, now: time.Now}
}

type CreateLeadInput struct {
	ClientID      int64                `json:"client_id"`
	AdvisorID     *int64               `json:"advisor_id,omitempty"`
	ProjectID     *int64               `json:"project_id,omitempty"`
	ReferralID    *int64               `json:"referral_id,omitempty"`
	CaptureSource models.CaptureSource `json:"capture_source"`
}

// Create captures a prospect: assigns the next year-scoped code, opens
// a seven-day attention window and registers the lead.
func (s *LeadService) Create(in CreateLeadInput) (*models.Lead, error) {
	client, err := s.clients.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil || !client.IsActive {
		return nil, apperr.Validation("client is missing or inactive")
	}
	if in.CaptureSource == "" {
		in.CaptureSource = models.SourceWalkIn
	}

	now := s.now()
	lead := &models.Lead{
		ClientID:       in.ClientID,
		AdvisorID:      in.AdvisorID,
		ProjectID:      in.ProjectID,
		ReferralID:     in.ReferralID,
		Status:         models.LeadStatusRegistered,
		CaptureSource:  in.CaptureSource,
		EntryDate:      now,
		ExpirationDate: now.AddDate(0, 0, models.LeadValidityDays),
		IsActive:       true,
		CreatedAt:      now,
	}

	// The code sequence is derived by scanning the stored maximum, so
	// two concurrent creations can race on the same number. The unique
	// index on leads.code catches the loser, which re-reads and retries
	// once.
	for attempt := 0; ; attempt++ {
		last, err := s.repo.MaxCodeForYear(now.Year())
		if err != nil {
			return nil, err
		}
		lead.Code = NextLeadCode(now.Year(), last)

		id, err := s.repo.Create(lead)
		if err == nil {
			lead.ID = id
			return lead, nil
		}
		if !repositories.IsUniqueViolation(err) || attempt >= 1 {
			return nil, err
		}
	}
}

// ChangeStatus applies a new status. Completed and Canceled require a
// completion reason; any other status clears it.
func (s *LeadService) ChangeStatus(id int64, status models.LeadStatus, reason *models.CompletionReason, note string) (*models.Lead, error) {
	lead, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil || !lead.IsActive {
		return nil, apperr.NotFound("lead not found")
	}

	if status.Terminal() {
		if reason == nil {
			return nil, apperr.Validation("completion reason is required for a terminal status")
		}
		lead.CompletionReason = reason
		lead.CancellationNote = note
	} else {
		lead.CompletionReason = nil
		lead.CancellationNote = ""
	}
	lead.Status = status

	if err := s.repo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// Recycle puts an expired or canceled lead back into the pipeline with
// a fresh attention window. The recycle count only ever grows.
func (s *LeadService) Recycle(id, actorID int64) (*models.Lead, error) {
	lead, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil || !lead.IsActive {
		return nil, apperr.NotFound("lead not found")
	}
	if !lead.Status.Recyclable() {
		return nil, apperr.NotFound("lead is not in a recyclable status")
	}

	now := s.now()
	lead.Status = models.LeadStatusRegistered
	lead.CompletionReason = nil
	lead.CancellationNote = ""
	lead.EntryDate = now
	lead.ExpirationDate = now.AddDate(0, 0, models.LeadValidityDays)
	lead.RecycleCount++
	lead.LastRecycledBy = &actorID
	lead.LastRecycledAt = &now

	if err := s.repo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// SweepExpirations expires every active lead whose window has closed.
// Safe to re-run: already-expired leads are untouched.
func (s *LeadService) SweepExpirations() (int64, error) {
	n, err := s.repo.ExpireOverdue(s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 && s.notifier != nil {
		s.notifier.SweepCompleted(n)
	}
	if n > 0 {
		log.Printf("lead sweep: %d leads expired", n)
	}
	return n, nil
}

// Deactivate soft-deletes a lead; it disappears from active-pipeline
// queries but is never physically removed.
func (s *LeadService) Deactivate(id int64) error {
	lead, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if lead == nil {
		return apperr.NotFound("lead not found")
	}
	lead.IsActive = false
	return s.repo.Update(lead)
}

// Reactivate restores a soft-deleted lead, re-deriving its status from
// the expiration check.
func (s *LeadService) Reactivate(id int64) (*models.Lead, error) {
	lead, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperr.NotFound("lead not found")
	}
	lead.IsActive = true
	if !lead.Status.Terminal() {
		if lead.ExpirationDate.Before(s.now()) {
			lead.Status = models.LeadStatusExpired
		} else {
			lead.Status = models.LeadStatusRegistered
		}
	}
	if err := s.repo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) GetByID(id int64) (*models.Lead, error) {
	return s.repo.GetByID(id)
}

// ListVisible returns the leads inside the caller's visibility scope.
func (s *LeadService) ListVisible(scope authz.Scope, f models.LeadFilter, limit, offset int) ([]*models.Lead, error) {
	if !scope.Unrestricted() {
		f.AdvisorIDs = append([]int64{scope.ActorID}, scope.AdvisorIDs...)
	}
	return s.repo.Filter(f, limit, offset)
}
