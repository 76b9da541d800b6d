package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inmocrm/internal/models"
)

func TestCanTransitionLot(t *testing.T) {
	cases := []struct {
		name    string
		from    models.LotStatus
		to      models.LotStatus
		allowed bool
	}{
		{"available to quoted", models.LotStatusAvailable, models.LotStatusQuoted, true},
		{"available to reserved", models.LotStatusAvailable, models.LotStatusReserved, true},
		{"available direct sale", models.LotStatusAvailable, models.LotStatusSold, true},
		{"available to itself", models.LotStatusAvailable, models.LotStatusAvailable, true},
		{"quoted released", models.LotStatusQuoted, models.LotStatusAvailable, true},
		{"quoted to reserved", models.LotStatusQuoted, models.LotStatusReserved, true},
		{"quoted cannot jump to sold", models.LotStatusQuoted, models.LotStatusSold, false},
		{"reserved released", models.LotStatusReserved, models.LotStatusAvailable, true},
		{"reserved to sold", models.LotStatusReserved, models.LotStatusSold, true},
		{"reserved cannot go back to quoted", models.LotStatusReserved, models.LotStatusQuoted, false},
		{"sold is terminal", models.LotStatusSold, models.LotStatusAvailable, false},
		{"sold stays sold", models.LotStatusSold, models.LotStatusSold, false},
		{"unknown status", models.LotStatus("bogus"), models.LotStatusAvailable, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.allowed, CanTransitionLot(tc.from, tc.to))
		})
	}
}

func TestReservationCascadesCoverEveryStatus(t *testing.T) {
	for _, status := range []models.ReservationStatus{
		models.ReservationStatusIssued,
		models.ReservationStatusFinancingActive,
		models.ReservationStatusVoided,
	} {
		_, ok := ReservationCascades[status]
		require.True(t, ok, "missing cascade for %s", status)
	}
}

func TestFinancingCascadeGeneratesScheduleAndMarksValidation(t *testing.T) {
	policy := ReservationCascades[models.ReservationStatusFinancingActive]
	require.Equal(t, models.LotStatusReserved, policy.LotStatus)
	require.True(t, policy.GenerateSchedule)
	require.True(t, policy.ValidationPending)
}

func TestVoidedCascadeReleasesLot(t *testing.T) {
	policy := ReservationCascades[models.ReservationStatusVoided]
	require.Equal(t, models.LotStatusAvailable, policy.LotStatus)
	require.False(t, policy.GenerateSchedule)
	require.False(t, policy.ValidationPending)
}
