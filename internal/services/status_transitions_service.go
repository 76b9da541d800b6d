package services

import "inmocrm/internal/models"

// Allowed lot status transitions. Sold is terminal; Available may move
// anywhere, including directly to Sold for cash deals.
var LotTransitions = map[models.LotStatus]map[models.LotStatus]bool{
	models.LotStatusAvailable: {
		models.LotStatusAvailable: true,
		models.LotStatusQuoted:    true,
		models.LotStatusReserved:  true,
		models.LotStatusSold:      true,
	},
	models.LotStatusQuoted: {
		models.LotStatusAvailable: true,
		models.LotStatusReserved:  true,
	},
	models.LotStatusReserved: {
		models.LotStatusAvailable: true,
		models.LotStatusSold:      true,
	},
	models.LotStatusSold: {},
}

// CanTransitionLot is a pure lookup against the lot transition table.
func CanTransitionLot(current, next models.LotStatus) bool {
	nexts, ok := LotTransitions[current]
	if !ok {
		return false
	}
	return nexts[next]
}

// CascadePolicy is the fan-out a reservation status change applies:
// which lot status it implies, whether it triggers schedule generation
// and whether the contract-validation marker is set. Keeping the policy
// as data avoids a sprawling conditional in the reservation service.
type CascadePolicy struct {
	LotStatus         models.LotStatus
	GenerateSchedule  bool
	ValidationPending bool
}

// ReservationCascades maps each reservation status to its policy.
var ReservationCascades = map[models.ReservationStatus]CascadePolicy{
	models.ReservationStatusIssued: {
		LotStatus: models.LotStatusQuoted,
	},
	models.ReservationStatusFinancingActive: {
		LotStatus:         models.LotStatusReserved,
		GenerateSchedule:  true,
		ValidationPending: true,
	},
	models.ReservationStatusVoided: {
		LotStatus: models.LotStatusAvailable,
	},
}
