package models

import "time"

// LeadStatus defines the lifecycle states of a lead.
type LeadStatus string

const (
	LeadStatusRegistered LeadStatus = "registered"
	LeadStatusAttended   LeadStatus = "attended"
	LeadStatusInFollowUp LeadStatus = "in_follow_up"
	LeadStatusCompleted  LeadStatus = "completed"
	LeadStatusCanceled   LeadStatus = "canceled"
	LeadStatusExpired    LeadStatus = "expired"
)

// Terminal reports whether the status ends the pipeline for this lead.
func (s LeadStatus) Terminal() bool {
	return s == LeadStatusCompleted || s == LeadStatusCanceled
}

// Recyclable reports whether a lead in this status may be recycled back
// into the pipeline.
func (s LeadStatus) Recyclable() bool {
	return s == LeadStatusExpired || s == LeadStatusCanceled
}

type CaptureSource string

const (
	SourceWalkIn   CaptureSource = "walk_in"
	SourcePhone    CaptureSource = "phone"
	SourceWeb      CaptureSource = "web"
	SourceReferral CaptureSource = "referral"
	SourceCampaign CaptureSource = "campaign"
	SourceImport   CaptureSource = "import"
)

type CompletionReason string

const (
	ReasonPurchased     CompletionReason = "purchased"
	ReasonNotInterested CompletionReason = "not_interested"
	ReasonUnreachable   CompletionReason = "unreachable"
	ReasonDuplicate     CompletionReason = "duplicate"
	ReasonOther         CompletionReason = "other"
)

// LeadValidityDays is the length of the attention window granted on
// creation and on every recycle.
const LeadValidityDays = 7

type Lead struct {
	ID               int64             `json:"id"`
	Code             string            `json:"code"`
	ClientID         int64             `json:"client_id"`
	AdvisorID        *int64            `json:"advisor_id,omitempty"`
	ProjectID        *int64            `json:"project_id,omitempty"`
	ReferralID       *int64            `json:"referral_id,omitempty"`
	Status           LeadStatus        `json:"status"`
	CaptureSource    CaptureSource     `json:"capture_source"`
	CompletionReason *CompletionReason `json:"completion_reason,omitempty"`
	CancellationNote string            `json:"cancellation_note,omitempty"`
	EntryDate        time.Time         `json:"entry_date"`
	ExpirationDate   time.Time         `json:"expiration_date"`
	RecycleCount     int               `json:"recycle_count"`
	LastRecycledBy   *int64            `json:"last_recycled_by,omitempty"`
	LastRecycledAt   *time.Time        `json:"last_recycled_at,omitempty"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Overdue reports whether the attention window has closed for a lead that
// is still in a sweepable status.
func (l *Lead) Overdue(now time.Time) bool {
	if l.Status == LeadStatusExpired || l.Status.Terminal() {
		return false
	}
	return l.ExpirationDate.Before(now)
}

// LeadFilter defines the available parameters for filtering leads.
type LeadFilter struct {
	Status     *LeadStatus
	AdvisorIDs []int64
	ProjectID  *int64
	From       *time.Time
	To         *time.Time
}
