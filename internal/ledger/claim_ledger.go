package ledger

import (
	"context"
	"time"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

// ClaimStore is the storage surface the ClaimLedger needs.
// MarkEntitlementClaimed must be a conditional write on status CLAIMABLE so
// that exactly one of any number of concurrent claims succeeds.
type ClaimStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Entitlement(ctx context.Context, id string) (*model.DividendEntitlement, error)
	HolderPositionByID(ctx context.Context, id string) (*model.HolderPosition, error)
	MarkEntitlementClaimed(ctx context.Context, id string, at time.Time) (bool, error)
	OutstandingForWallet(ctx context.Context, wallet string) ([]model.DividendEntitlement, error)
}

// ClaimLedger enforces at-most-once claiming of dividend entitlements.
// Ownership is checked at claim time against the wallet currently on the
// holder position, not the wallet at mint time, since positions transfer.
type ClaimLedger struct {
	store ClaimStore
	clock clock.Clock
}

// NewClaimLedger binds the ClaimLedger to its store and clock.
func NewClaimLedger(store ClaimStore, clk clock.Clock) *ClaimLedger {
	return &ClaimLedger{store: store, clock: clk}
}

// ClaimResult reports one successful claim.
type ClaimResult struct {
	EntitlementID string
	AmountCents   int64
	Currency      string
	ClaimedAt     time.Time
}

// Claim marks one entitlement as claimed by wallet. The status check and
// the CLAIMABLE -> CLAIMED write happen atomically; of two racing claims
// exactly one succeeds and the other gets ErrAlreadyClaimed.
func (l *ClaimLedger) Claim(ctx context.Context, entitlementID, wallet string) (ClaimResult, error) {
	var res ClaimResult
	err := l.store.WithTx(ctx, func(ctx context.Context) error {
		ent, err := l.store.Entitlement(ctx, entitlementID)
		if err != nil {
			return err
		}
		pos, err := l.store.HolderPositionByID(ctx, ent.HolderPositionID)
		if err != nil {
			return err
		}
		if pos.Wallet != wallet {
			return ErrWalletMismatch
		}
		if ent.Status != model.EntitlementStatusClaimable {
			return ErrAlreadyClaimed
		}

		now := l.clock.Now()
		ok, err := l.store.MarkEntitlementClaimed(ctx, ent.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyClaimed
		}
		res = ClaimResult{
			EntitlementID: ent.ID,
			AmountCents:   ent.AmountCents,
			Currency:      ent.Currency,
			ClaimedAt:     now,
		}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	return res, nil
}

// ClaimOutcome is one line of a ClaimAll run. Err is nil when the claim
// succeeded; failures are reported per entitlement, never aggregated.
type ClaimOutcome struct {
	EntitlementID string
	AmountCents   int64
	Currency      string
	Err           error
}

// ClaimAll claims every outstanding entitlement owned by wallet. Each
// entitlement is processed in its own transaction so one failure does not
// block the rest; partial success is expected and surfaced per item.
func (l *ClaimLedger) ClaimAll(ctx context.Context, wallet string) ([]ClaimOutcome, error) {
	outstanding, err := l.store.OutstandingForWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	outcomes := make([]ClaimOutcome, 0, len(outstanding))
	for _, ent := range outstanding {
		out := ClaimOutcome{EntitlementID: ent.ID, Currency: ent.Currency}
		res, err := l.Claim(ctx, ent.ID, wallet)
		if err != nil {
			out.Err = err
		} else {
			out.AmountCents = res.AmountCents
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Outstanding lists the wallet's claimable entitlements.
func (l *ClaimLedger) Outstanding(ctx context.Context, wallet string) ([]model.DividendEntitlement, error) {
	return l.store.OutstandingForWallet(ctx, wallet)
}
