package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

// DistributorStore is the storage surface the RevenueDistributor needs.
// MarkRevenueProcessed must be a conditional write on status PENDING that
// reports whether this caller won the transition; the losing side of a
// concurrent race sees false and no second batch is ever created.
type DistributorStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	MasterIPO(ctx context.Context, id string) (*model.MasterIPO, error)
	AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error)
	CreateRevenueEvent(ctx context.Context, ev *model.RevenueEvent) error
	RevenueEvent(ctx context.Context, id string) (*model.RevenueEvent, error)
	ListRevenueEvents(ctx context.Context, ipoID string) ([]model.RevenueEvent, error)
	MarkRevenueProcessed(ctx context.Context, id string, at time.Time) (bool, error)
	CreateEntitlements(ctx context.Context, batch []model.DividendEntitlement) error
}

// RevenueDistributor converts pending revenue events into batches of
// dividend entitlements, proportional to each wallet's holdings at
// processing time.
type RevenueDistributor struct {
	store DistributorStore
	clock clock.Clock
}

// NewRevenueDistributor binds the distributor to its store and clock.
func NewRevenueDistributor(store DistributorStore, clk clock.Clock) *RevenueDistributor {
	return &RevenueDistributor{store: store, clock: clk}
}

// RecordRevenueInput describes an incoming revenue deposit.
type RecordRevenueInput struct {
	MasterIPOID string
	AmountCents int64
	Currency    string
	SourceType  string
}

// RecordRevenueEvent stores a revenue deposit as PENDING. The currency
// defaults to the IPO's when empty; distribution happens later via
// ProcessRevenueEvent.
func (d *RevenueDistributor) RecordRevenueEvent(ctx context.Context, in RecordRevenueInput) (model.RevenueEvent, error) {
	if in.AmountCents <= 0 {
		return model.RevenueEvent{}, ErrInvalidAmount
	}
	if !model.ValidRevenueSource(in.SourceType) {
		return model.RevenueEvent{}, ErrInvalidAmount
	}
	ipo, err := d.store.MasterIPO(ctx, in.MasterIPOID)
	if err != nil {
		return model.RevenueEvent{}, err
	}

	ev := model.RevenueEvent{
		ID:          uuid.NewString(),
		MasterIPOID: ipo.ID,
		AmountCents: in.AmountCents,
		Currency:    in.Currency,
		SourceType:  in.SourceType,
		Status:      model.RevenueStatusPending,
		RecordedAt:  d.clock.Now(),
	}
	if ev.Currency == "" {
		ev.Currency = ipo.Currency
	}
	if err := d.store.CreateRevenueEvent(ctx, &ev); err != nil {
		return model.RevenueEvent{}, err
	}
	return ev, nil
}

// ProcessResult reports one completed distribution.
type ProcessResult struct {
	Event        model.RevenueEvent
	PoolCents    int64 // holder share of the event amount
	Entitlements []model.DividendEntitlement
}

// ProcessRevenueEvent runs the distribution for one PENDING event:
//
//	pool = amount * holderRevenueSharePercent / 100
//	entitlement_i = pool * quantity_i / totalUnits   (half-even rounding)
//
// The rounding residual goes to the holder with the smallest mint-order
// rank so the entitlement amounts sum to the pool exactly. The whole batch
// and the PENDING -> PROCESSED transition commit as one transaction; a
// second call for the same event fails with ErrAlreadyProcessed and writes
// nothing. An event against an IPO with zero minted units is marked
// processed with an empty batch — the pool stays unallocated and that is a
// valid terminal state, not an error.
func (d *RevenueDistributor) ProcessRevenueEvent(ctx context.Context, eventID string) (ProcessResult, error) {
	var res ProcessResult
	err := d.store.WithTx(ctx, func(ctx context.Context) error {
		ev, err := d.store.RevenueEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Status != model.RevenueStatusPending {
			return ErrAlreadyProcessed
		}
		ipo, err := d.store.MasterIPO(ctx, ev.MasterIPOID)
		if err != nil {
			return err
		}

		// Claim the event first. Losing a concurrent race surfaces here as
		// zero rows updated, before any entitlement exists.
		now := d.clock.Now()
		ok, err := d.store.MarkRevenueProcessed(ctx, ev.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyProcessed
		}
		ev.Status = model.RevenueStatusProcessed
		ev.ProcessedAt = &now

		pool := percentOf(ev.AmountCents, ipo.HolderRevenueSharePercent)

		holders, err := d.store.AllHolders(ctx, ipo.ID)
		if err != nil {
			return err
		}
		var totalUnits int64
		for _, h := range holders {
			totalUnits += h.QuantityHeld
		}

		res = ProcessResult{Event: *ev, PoolCents: pool}
		if totalUnits == 0 {
			return nil
		}

		// Holders are rank-ascending, so index 0 is the earliest holder
		// with units and absorbs the rounding residual.
		var sum int64
		first := -1
		for _, h := range holders {
			if h.QuantityHeld == 0 {
				continue
			}
			amount := roundDivHalfEven(pool*h.QuantityHeld, totalUnits)
			sum += amount
			res.Entitlements = append(res.Entitlements, model.DividendEntitlement{
				ID:               uuid.NewString(),
				RevenueEventID:   ev.ID,
				MasterIPOID:      ipo.ID,
				HolderPositionID: h.ID,
				AmountCents:      amount,
				Currency:         ev.Currency,
				Status:           model.EntitlementStatusClaimable,
				CreatedAt:        now,
			})
			if first == -1 {
				first = len(res.Entitlements) - 1
			}
		}
		if residual := pool - sum; residual != 0 && first >= 0 {
			res.Entitlements[first].AmountCents += residual
		}

		return d.store.CreateEntitlements(ctx, res.Entitlements)
	})
	if err != nil {
		return ProcessResult{}, err
	}
	return res, nil
}

// RevenueEvents lists the events recorded against one IPO.
func (d *RevenueDistributor) RevenueEvents(ctx context.Context, ipoID string) ([]model.RevenueEvent, error) {
	if _, err := d.store.MasterIPO(ctx, ipoID); err != nil {
		return nil, err
	}
	return d.store.ListRevenueEvents(ctx, ipoID)
}
