package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLeadStatusPredicates(t *testing.T) {
	require.True(t, LeadStatusCompleted.Terminal())
	require.True(t, LeadStatusCanceled.Terminal())
	require.False(t, LeadStatusExpired.Terminal())
	require.False(t, LeadStatusRegistered.Terminal())

	require.True(t, LeadStatusExpired.Recyclable())
	require.True(t, LeadStatusCanceled.Recyclable())
	require.False(t, LeadStatusCompleted.Recyclable())
	require.False(t, LeadStatusInFollowUp.Recyclable())
}

func TestLeadOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := &Lead{Status: LeadStatusRegistered, ExpirationDate: now.AddDate(0, 0, 1)}
	require.False(t, fresh.Overdue(now))

	stale := &Lead{Status: LeadStatusInFollowUp, ExpirationDate: now.AddDate(0, 0, -1)}
	require.True(t, stale.Overdue(now))

	// already expired or closed leads are never swept again
	expired := &Lead{Status: LeadStatusExpired, ExpirationDate: now.AddDate(0, 0, -1)}
	require.False(t, expired.Overdue(now))

	done := &Lead{Status: LeadStatusCompleted, ExpirationDate: now.AddDate(0, 0, -1)}
	require.False(t, done.Overdue(now))
}
