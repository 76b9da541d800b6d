package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/lib/pq"

	"inmocrm/internal/models"
)

// In-memory fakes for the repository interfaces. They keep pointers, so
// each test builds its own fresh set.

type fakeLeadRepo struct {
	leads  map[int64]*models.Lead
	nextID int64
	// number of unique violations Create returns before accepting, to
	// drive the code-collision retry path
	codeCollisions int
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[int64]*models.Lead{}}
}

func (f *fakeLeadRepo) Create(lead *models.Lead) (int64, error) {
	if f.codeCollisions > 0 {
		f.codeCollisions--
		return 0, &pq.Error{Code: "23505"}
	}
	f.nextID++
	stored := *lead
	stored.ID = f.nextID
	f.leads[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeLeadRepo) Update(lead *models.Lead) error {
	stored := *lead
	f.leads[lead.ID] = &stored
	return nil
}

func (f *fakeLeadRepo) GetByID(id int64) (*models.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, nil
	}
	out := *lead
	return &out, nil
}

func (f *fakeLeadRepo) MaxCodeForYear(year int) (string, error) {
	max := ""
	for _, lead := range f.leads {
		if _, ok := parseLeadCode(year, lead.Code); ok && lead.Code > max {
			max = lead.Code
		}
	}
	return max, nil
}

func (f *fakeLeadRepo) ExpireOverdue(now time.Time) (int64, error) {
	var n int64
	for _, lead := range f.leads {
		if lead.IsActive && lead.Overdue(now) {
			lead.Status = models.LeadStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeLeadRepo) Filter(filter models.LeadFilter, limit, offset int) ([]*models.Lead, error) {
	var out []*models.Lead
	for _, lead := range f.leads {
		if !lead.IsActive {
			continue
		}
		if filter.Status != nil && lead.Status != *filter.Status {
			continue
		}
		if len(filter.AdvisorIDs) > 0 {
			match := false
			for _, id := range filter.AdvisorIDs {
				if lead.AdvisorID != nil && *lead.AdvisorID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		copy := *lead
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeLeadRepo) CountByStatus() (map[models.LeadStatus]int, error) {
	out := map[models.LeadStatus]int{}
	for _, lead := range f.leads {
		if lead.IsActive {
			out[lead.Status]++
		}
	}
	return out, nil
}

type fakeClientRepo struct {
	clients map[int64]*models.Client
	nextID  int64
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int64]*models.Client{}}
}

func (f *fakeClientRepo) add(client *models.Client) *models.Client {
	f.nextID++
	client.ID = f.nextID
	f.clients[client.ID] = client
	return client
}

func (f *fakeClientRepo) Create(client *models.Client) (int64, error) {
	f.nextID++
	stored := *client
	stored.ID = f.nextID
	f.clients[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeClientRepo) Update(client *models.Client) error {
	stored := *client
	f.clients[client.ID] = &stored
	return nil
}

func (f *fakeClientRepo) GetByID(id int64) (*models.Client, error) {
	client, ok := f.clients[id]
	if !ok {
		return nil, nil
	}
	out := *client
	return &out, nil
}

func (f *fakeClientRepo) GetByDocument(documentID string) (*models.Client, error) {
	for _, client := range f.clients {
		if client.DocumentID == documentID {
			out := *client
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeClientRepo) List(limit, offset int) ([]*models.Client, error) {
	var out []*models.Client
	for _, client := range f.clients {
		copy := *client
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeClientRepo) FindByName(name string) ([]*models.Client, error) {
	var out []*models.Client
	for _, client := range f.clients {
		if strings.Contains(strings.ToLower(client.FullName), strings.ToLower(name)) {
			copy := *client
			out = append(out, &copy)
		}
	}
	return out, nil
}

type fakeLotRepo struct {
	lots   map[int64]*models.Lot
	nextID int64
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: map[int64]*models.Lot{}}
}

func (f *fakeLotRepo) add(lot *models.Lot) *models.Lot {
	f.nextID++
	lot.ID = f.nextID
	f.lots[lot.ID] = lot
	return lot
}

func (f *fakeLotRepo) Create(lot *models.Lot) (int64, error) {
	f.nextID++
	stored := *lot
	stored.ID = f.nextID
	f.lots[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeLotRepo) GetByID(id int64) (*models.Lot, error) {
	lot, ok := f.lots[id]
	if !ok {
		return nil, nil
	}
	out := *lot
	return &out, nil
}

func (f *fakeLotRepo) UpdateStatus(id int64, status models.LotStatus) error {
	lot, ok := f.lots[id]
	if !ok {
		return sql.ErrNoRows
	}
	lot.Status = status
	return nil
}

func (f *fakeLotRepo) SetActive(id int64, active bool) error {
	lot, ok := f.lots[id]
	if !ok {
		return sql.ErrNoRows
	}
	lot.IsActive = active
	return nil
}

func (f *fakeLotRepo) NumberExistsInBlock(blockID int64, number string) (bool, error) {
	for _, lot := range f.lots {
		if lot.BlockID == blockID && strings.EqualFold(lot.Number, number) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLotRepo) ListByBlock(blockID int64, limit, offset int) ([]*models.Lot, error) {
	var out []*models.Lot
	for _, lot := range f.lots {
		if lot.BlockID == blockID && lot.IsActive {
			copy := *lot
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (f *fakeLotRepo) CountByStatus() (map[models.LotStatus]int, error) {
	out := map[models.LotStatus]int{}
	for _, lot := range f.lots {
		if lot.IsActive {
			out[lot.Status]++
		}
	}
	return out, nil
}

type fakeBlockRepo struct {
	blocks map[int64]*models.Block
	nextID int64
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: map[int64]*models.Block{}}
}

func (f *fakeBlockRepo) add(block *models.Block) *models.Block {
	f.nextID++
	block.ID = f.nextID
	f.blocks[block.ID] = block
	return block
}

func (f *fakeBlockRepo) Create(block *models.Block) (int64, error) {
	f.nextID++
	stored := *block
	stored.ID = f.nextID
	f.blocks[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeBlockRepo) GetByID(id int64) (*models.Block, error) {
	block, ok := f.blocks[id]
	if !ok {
		return nil, nil
	}
	out := *block
	return &out, nil
}

func (f *fakeBlockRepo) ListByProject(projectID int64) ([]*models.Block, error) {
	var out []*models.Block
	for _, block := range f.blocks {
		if block.ProjectID == projectID {
			copy := *block
			out = append(out, &copy)
		}
	}
	return out, nil
}

type fakeProjectRepo struct {
	projects map[int64]*models.Project
	nextID   int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[int64]*models.Project{}}
}

func (f *fakeProjectRepo) add(project *models.Project) *models.Project {
	f.nextID++
	project.ID = f.nextID
	f.projects[project.ID] = project
	return project
}

func (f *fakeProjectRepo) Create(project *models.Project) (int64, error) {
	f.nextID++
	stored := *project
	stored.ID = f.nextID
	f.projects[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeProjectRepo) GetByID(id int64) (*models.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, nil
	}
	out := *project
	return &out, nil
}

func (f *fakeProjectRepo) List(limit, offset int) ([]*models.Project, error) {
	var out []*models.Project
	for _, project := range f.projects {
		copy := *project
		out = append(out, &copy)
	}
	return out, nil
}

type fakeQuotationRepo struct {
	quotations map[int64]*models.Quotation
	nextID     int64
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{quotations: map[int64]*models.Quotation{}}
}

func (f *fakeQuotationRepo) add(q *models.Quotation) *models.Quotation {
	f.nextID++
	q.ID = f.nextID
	f.quotations[q.ID] = q
	return q
}

func (f *fakeQuotationRepo) Create(q *models.Quotation) (int64, error) {
	f.nextID++
	stored := *q
	stored.ID = f.nextID
	f.quotations[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeQuotationRepo) GetByID(id int64) (*models.Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, nil
	}
	out := *q
	return &out, nil
}

func (f *fakeQuotationRepo) ListByLead(leadID int64) ([]*models.Quotation, error) {
	var out []*models.Quotation
	for _, q := range f.quotations {
		if q.LeadID == leadID {
			copy := *q
			out = append(out, &copy)
		}
	}
	return out, nil
}

type fakeReservationRepo struct {
	reservations map[int64]*models.Reservation
	nextID       int64
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: map[int64]*models.Reservation{}}
}

func (f *fakeReservationRepo) add(res *models.Reservation) *models.Reservation {
	f.nextID++
	res.ID = f.nextID
	f.reservations[res.ID] = res
	return res
}

func (f *fakeReservationRepo) Create(res *models.Reservation) (int64, error) {
	f.nextID++
	stored := *res
	stored.ID = f.nextID
	f.reservations[f.nextID] = &stored
	return f.nextID, nil
}

func (f *fakeReservationRepo) Update(res *models.Reservation) error {
	stored := *res
	f.reservations[res.ID] = &stored
	return nil
}

func (f *fakeReservationRepo) GetByID(id int64) (*models.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	out := *res
	return &out, nil
}

func (f *fakeReservationRepo) GetActiveByQuotation(quotationID int64) (*models.Reservation, error) {
	for _, res := range f.reservations {
		if res.QuotationID == quotationID && res.IsActive {
			out := *res
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeReservationRepo) Filter(filter models.ReservationFilter, limit, offset int) ([]*models.Reservation, error) {
	var out []*models.Reservation
	for _, res := range f.reservations {
		if !res.IsActive {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		copy := *res
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakeReservationRepo) CountByStatus() (map[models.ReservationStatus]int, error) {
	out := map[models.ReservationStatus]int{}
	for _, res := range f.reservations {
		if res.IsActive {
			out[res.Status]++
		}
	}
	return out, nil
}

type fakePaymentRepo struct {
	payments map[int64][]*models.Payment
	nextID   int64
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[int64][]*models.Payment{}}
}

func (f *fakePaymentRepo) CreateBatch(payments []*models.Payment) error {
	for _, p := range payments {
		f.nextID++
		stored := *p
		stored.ID = f.nextID
		f.payments[p.ReservationID] = append(f.payments[p.ReservationID], &stored)
	}
	return nil
}

func (f *fakePaymentRepo) Update(p *models.Payment) error {
	for i, stored := range f.payments[p.ReservationID] {
		if stored.ID == p.ID {
			copy := *p
			f.payments[p.ReservationID][i] = &copy
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakePaymentRepo) ListByReservation(reservationID int64) ([]*models.Payment, error) {
	var out []*models.Payment
	for _, p := range f.payments[reservationID] {
		copy := *p
		out = append(out, &copy)
	}
	return out, nil
}

func (f *fakePaymentRepo) DeleteByReservation(reservationID int64) error {
	delete(f.payments, reservationID)
	return nil
}

type fakeNotifier struct {
	sweeps   []int64
	financed []int64
}

func (f *fakeNotifier) SweepCompleted(expired int64) {
	f.sweeps = append(f.sweeps, expired)
}

func (f *fakeNotifier) ReservationFinanced(reservationID int64, clientName string, installments int) {
	f.financed = append(f.financed, reservationID)
}

// testPipeline bundles the fakes behind a pass-through runTx, standing
// in for a transaction-bound store.
type testPipeline struct {
	leads        *fakeLeadRepo
	clients      *fakeClientRepo
	lots         *fakeLotRepo
	quotations   *fakeQuotationRepo
	reservations *fakeReservationRepo
	payments     *fakePaymentRepo
}

func newTestPipeline() *testPipeline {
	return &testPipeline{
		leads:        newFakeLeadRepo(),
		clients:      newFakeClientRepo(),
		lots:         newFakeLotRepo(),
		quotations:   newFakeQuotationRepo(),
		reservations: newFakeReservationRepo(),
		payments:     newFakePaymentRepo(),
	}
}

func (p *testPipeline) runTx(fn func(pipelineTx) error) error {
	return fn(pipelineTx{
		Reservations: p.reservations,
		Lots:         p.lots,
		Payments:     p.payments,
		Quotations:   p.quotations,
		Leads:        p.leads,
		Clients:      p.clients,
	})
}
