package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/cywf/AudiFi-sub000/internal/model"
)

// memStore is an in-memory implementation of the ledger store interfaces.
// WithTx snapshots the whole state and restores it when fn errors, so the
// rollback behaviour the services rely on is observable in tests. failOn
// lets a test force an error from a named store call inside a transaction.
type memStore struct {
	ipos         map[string]*model.MasterIPO
	positions    map[string]*model.HolderPosition
	events       map[string]*model.RevenueEvent
	entitlements map[string]*model.DividendEntitlement
	resales      map[string]*model.ResaleTransaction

	failOn map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		ipos:         map[string]*model.MasterIPO{},
		positions:    map[string]*model.HolderPosition{},
		events:       map[string]*model.RevenueEvent{},
		entitlements: map[string]*model.DividendEntitlement{},
		resales:      map[string]*model.ResaleTransaction{},
		failOn:       map[string]error{},
	}
}

func (s *memStore) fail(call string) error {
	return s.failOn[call]
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for k, v := range s.ipos {
		c := *v
		cp.ipos[k] = &c
	}
	for k, v := range s.positions {
		c := *v
		cp.positions[k] = &c
	}
	for k, v := range s.events {
		c := *v
		cp.events[k] = &c
	}
	for k, v := range s.entitlements {
		c := *v
		cp.entitlements[k] = &c
	}
	for k, v := range s.resales {
		c := *v
		cp.resales[k] = &c
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.ipos = snap.ipos
	s.positions = snap.positions
	s.events = snap.events
	s.entitlements = snap.entitlements
	s.resales = snap.resales
}

func (s *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func (s *memStore) CreateMasterIPO(ctx context.Context, ipo *model.MasterIPO) error {
	if err := s.fail("CreateMasterIPO"); err != nil {
		return err
	}
	c := *ipo
	s.ipos[ipo.ID] = &c
	return nil
}

func (s *memStore) MasterIPO(ctx context.Context, id string) (*model.MasterIPO, error) {
	ipo, ok := s.ipos[id]
	if !ok {
		return nil, ErrMasterIPONotFound
	}
	c := *ipo
	return &c, nil
}

func (s *memStore) MasterIPOForUpdate(ctx context.Context, id string) (*model.MasterIPO, error) {
	return s.MasterIPO(ctx, id)
}

func (s *memStore) SetSupplyAndStatus(ctx context.Context, id string, minted int64, status string) error {
	if err := s.fail("SetSupplyAndStatus"); err != nil {
		return err
	}
	ipo, ok := s.ipos[id]
	if !ok {
		return ErrMasterIPONotFound
	}
	ipo.MintedSupply = minted
	ipo.Status = status
	return nil
}

func (s *memStore) TransitionIPOStatus(ctx context.Context, id, from, to string) (bool, error) {
	ipo, ok := s.ipos[id]
	if !ok {
		return false, ErrMasterIPONotFound
	}
	if ipo.Status != from {
		return false, nil
	}
	ipo.Status = to
	return true, nil
}

func (s *memStore) HolderPosition(ctx context.Context, ipoID, wallet string) (*model.HolderPosition, error) {
	for _, p := range s.positions {
		if p.MasterIPOID == ipoID && p.Wallet == wallet {
			c := *p
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) HolderPositionByID(ctx context.Context, id string) (*model.HolderPosition, error) {
	p, ok := s.positions[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *memStore) AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error) {
	var out []model.HolderPosition
	for _, p := range s.positions {
		if p.MasterIPOID == ipoID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MintOrderRank < out[j].MintOrderRank })
	return out, nil
}

func (s *memStore) HolderCount(ctx context.Context, ipoID string) (int, error) {
	n := 0
	for _, p := range s.positions {
		if p.MasterIPOID == ipoID {
			n++
		}
	}
	return n, nil
}

func (s *memStore) CreateHolderPosition(ctx context.Context, pos *model.HolderPosition) error {
	if err := s.fail("CreateHolderPosition"); err != nil {
		return err
	}
	c := *pos
	s.positions[pos.ID] = &c
	return nil
}

func (s *memStore) SetHolderQuantity(ctx context.Context, id string, qty int64) error {
	if err := s.fail("SetHolderQuantity"); err != nil {
		return err
	}
	p, ok := s.positions[id]
	if !ok {
		return ErrNotFound
	}
	p.QuantityHeld = qty
	return nil
}

func (s *memStore) CreateRevenueEvent(ctx context.Context, ev *model.RevenueEvent) error {
	if err := s.fail("CreateRevenueEvent"); err != nil {
		return err
	}
	c := *ev
	s.events[ev.ID] = &c
	return nil
}

func (s *memStore) RevenueEvent(ctx context.Context, id string) (*model.RevenueEvent, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *ev
	return &c, nil
}

func (s *memStore) ListRevenueEvents(ctx context.Context, ipoID string) ([]model.RevenueEvent, error) {
	var out []model.RevenueEvent
	for _, ev := range s.events {
		if ev.MasterIPOID == ipoID {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *memStore) MarkRevenueProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	ev, ok := s.events[id]
	if !ok {
		return false, ErrNotFound
	}
	if ev.Status != model.RevenueStatusPending {
		return false, nil
	}
	ev.Status = model.RevenueStatusProcessed
	t := at
	ev.ProcessedAt = &t
	return true, nil
}

func (s *memStore) CreateEntitlements(ctx context.Context, batch []model.DividendEntitlement) error {
	if err := s.fail("CreateEntitlements"); err != nil {
		return err
	}
	for _, ent := range batch {
		c := ent
		s.entitlements[ent.ID] = &c
	}
	return nil
}

func (s *memStore) Entitlement(ctx context.Context, id string) (*model.DividendEntitlement, error) {
	ent, ok := s.entitlements[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *ent
	return &c, nil
}

func (s *memStore) MarkEntitlementClaimed(ctx context.Context, id string, at time.Time) (bool, error) {
	ent, ok := s.entitlements[id]
	if !ok {
		return false, ErrNotFound
	}
	if ent.Status != model.EntitlementStatusClaimable {
		return false, nil
	}
	ent.Status = model.EntitlementStatusClaimed
	t := at
	ent.ClaimedAt = &t
	return true, nil
}

func (s *memStore) OutstandingForWallet(ctx context.Context, wallet string) ([]model.DividendEntitlement, error) {
	var out []model.DividendEntitlement
	for _, ent := range s.entitlements {
		if ent.Status != model.EntitlementStatusClaimable {
			continue
		}
		pos, ok := s.positions[ent.HolderPositionID]
		if !ok || pos.Wallet != wallet {
			continue
		}
		out = append(out, *ent)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memStore) CreateResale(ctx context.Context, resale *model.ResaleTransaction) error {
	if err := s.fail("CreateResale"); err != nil {
		return err
	}
	c := *resale
	s.resales[resale.ID] = &c
	return nil
}
