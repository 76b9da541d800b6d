package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inmocrm/internal/apperr"
	"inmocrm/internal/models"
)

func newLotServiceForTest(p *testPipeline) *LotService {
	blocks := newFakeBlockRepo()
	projects := newFakeProjectRepo()
	project := projects.add(&models.Project{Name: "Las Palmeras", IsActive: true})
	blocks.add(&models.Block{ProjectID: project.ID, Name: "A", IsActive: true})
	return &LotService{
		repo:     p.lots,
		blocks:   blocks,
		projects: projects,
		now:      func() time.Time { return testNow },
	}
}

func TestLotCreateStartsAvailable(t *testing.T) {
	p := newTestPipeline()
	svc := newLotServiceForTest(p)

	lot, err := svc.Create(CreateLotInput{
		BlockID: 1,
		Number:  "A-12",
		Area:    decimal.RequireFromString("120.5"),
		Price:   decimal.RequireFromString("45000"),
	})
	require.NoError(t, err)
	require.Equal(t, models.LotStatusAvailable, lot.Status)
	require.True(t, lot.IsActive)
}

func TestLotCreateRejectsDuplicateNumberInBlock(t *testing.T) {
	p := newTestPipeline()
	svc := newLotServiceForTest(p)

	_, err := svc.Create(CreateLotInput{BlockID: 1, Number: "A-12", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = svc.Create(CreateLotInput{BlockID: 1, Number: "a-12", Price: decimal.NewFromInt(1)})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestLotChangeStatusFollowsTable(t *testing.T) {
	p := newTestPipeline()
	svc := newLotServiceForTest(p)

	lot, err := svc.Create(CreateLotInput{BlockID: 1, Number: "A-1", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	quoted, err := svc.ChangeStatus(lot.ID, models.LotStatusQuoted)
	require.NoError(t, err)
	require.Equal(t, models.LotStatusQuoted, quoted.Status)

	// quoted may not jump straight to sold
	_, err = svc.ChangeStatus(lot.ID, models.LotStatusSold)
	require.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))

	// and the rejected move never touches the stored status
	stored, err := svc.GetByID(lot.ID)
	require.NoError(t, err)
	require.Equal(t, models.LotStatusQuoted, stored.Status)
}

func TestLotSoldIsTerminal(t *testing.T) {
	p := newTestPipeline()
	svc := newLotServiceForTest(p)

	lot, err := svc.Create(CreateLotInput{BlockID: 1, Number: "A-2", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(lot.ID, models.LotStatusSold)
	require.NoError(t, err)

	for _, next := range []models.LotStatus{
		models.LotStatusAvailable, models.LotStatusQuoted, models.LotStatusReserved, models.LotStatusSold,
	} {
		_, err = svc.ChangeStatus(lot.ID, next)
		require.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "sold -> %s", next)
	}
}

func TestLotDeactivateRefusesLockedStatuses(t *testing.T) {
	p := newTestPipeline()
	svc := newLotServiceForTest(p)

	lot, err := svc.Create(CreateLotInput{BlockID: 1, Number: "A-3", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(lot.ID, models.LotStatusReserved)
	require.NoError(t, err)

	err = svc.Deactivate(lot.ID)
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}
