package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

func seedEntitlement(store *memStore, id, posID string, amount int64) {
	store.entitlements[id] = &model.DividendEntitlement{
		ID:               id,
		RevenueEventID:   "ev-1",
		MasterIPOID:      "ipo-1",
		HolderPositionID: posID,
		AmountCents:      amount,
		Currency:         "USD",
		Status:           model.EntitlementStatusClaimable,
		CreatedAt:        testNow,
	}
}

func TestClaimLedger_Claim(t *testing.T) {
	ctx := context.Background()

	setup := func() (*ClaimLedger, *memStore) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
		seedEntitlement(store, "ent-1", "pos-a", 2667)
		return NewClaimLedger(store, clock.NewFixed(testNow)), store
	}

	t.Run("owner claims once", func(t *testing.T) {
		ledger, store := setup()

		res, err := ledger.Claim(ctx, "ent-1", "0xaaa")
		require.NoError(t, err)
		assert.Equal(t, int64(2667), res.AmountCents)
		assert.Equal(t, "USD", res.Currency)
		assert.Equal(t, testNow, res.ClaimedAt)

		ent, _ := store.Entitlement(ctx, "ent-1")
		assert.Equal(t, model.EntitlementStatusClaimed, ent.Status)
		require.NotNil(t, ent.ClaimedAt)
	})

	t.Run("second claim conflicts", func(t *testing.T) {
		ledger, _ := setup()

		_, err := ledger.Claim(ctx, "ent-1", "0xaaa")
		require.NoError(t, err)
		_, err = ledger.Claim(ctx, "ent-1", "0xaaa")
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})

	t.Run("wallet mismatch", func(t *testing.T) {
		ledger, store := setup()

		_, err := ledger.Claim(ctx, "ent-1", "0xbbb")
		assert.ErrorIs(t, err, ErrWalletMismatch)

		ent, _ := store.Entitlement(ctx, "ent-1")
		assert.Equal(t, model.EntitlementStatusClaimable, ent.Status)
	})

	t.Run("ownership follows the position, not mint history", func(t *testing.T) {
		ledger, store := setup()

		// position transfers to a new wallet after the entitlement was
		// computed; the new owner claims, the old one cannot
		store.positions["pos-a"].Wallet = "0xnew"

		_, err := ledger.Claim(ctx, "ent-1", "0xaaa")
		assert.ErrorIs(t, err, ErrWalletMismatch)

		res, err := ledger.Claim(ctx, "ent-1", "0xnew")
		require.NoError(t, err)
		assert.Equal(t, int64(2667), res.AmountCents)
	})

	t.Run("unknown entitlement", func(t *testing.T) {
		ledger, _ := setup()
		_, err := ledger.Claim(ctx, "nope", "0xaaa")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestClaimLedger_ClaimAll(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	activeIPO(store, "ipo-1", 100)
	seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
	seedHolder(store, "pos-b", "ipo-1", "0xbbb", 5, 2)
	seedEntitlement(store, "ent-1", "pos-a", 2667)
	seedEntitlement(store, "ent-2", "pos-a", 1000)
	seedEntitlement(store, "ent-3", "pos-b", 1333)
	ledger := NewClaimLedger(store, clock.NewFixed(testNow))

	// one of the wallet's entitlements is already claimed; claimAll must
	// surface that per item and still claim the rest
	_, err := ledger.Claim(ctx, "ent-2", "0xaaa")
	require.NoError(t, err)

	outstanding, err := ledger.Outstanding(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, outstanding, 1)
	assert.Equal(t, "ent-1", outstanding[0].ID)

	outcomes, err := ledger.ClaimAll(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, int64(2667), outcomes[0].AmountCents)

	// nothing left for the wallet, other wallets untouched
	outcomes, err = ledger.ClaimAll(ctx, "0xaaa")
	require.NoError(t, err)
	assert.Empty(t, outcomes)

	ent, _ := store.Entitlement(ctx, "ent-3")
	assert.Equal(t, model.EntitlementStatusClaimable, ent.Status)
}

func TestClaimLedger_ClaimAllPartialFailure(t *testing.T) {
	ctx := context.Background()

	store := newMemStore()
	activeIPO(store, "ipo-1", 100)
	seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
	seedHolder(store, "pos-b", "ipo-1", "0xbbb", 5, 2)
	seedEntitlement(store, "ent-1", "pos-a", 100)
	seedEntitlement(store, "ent-2", "pos-b", 200)
	ledger := NewClaimLedger(store, clock.NewFixed(testNow))

	// pos-b transfers to the same wallet, then its entitlement is claimed
	// out from under the batch by a concurrent claim
	store.positions["pos-b"].Wallet = "0xaaa"
	outstanding, err := ledger.Outstanding(ctx, "0xaaa")
	require.NoError(t, err)
	require.Len(t, outstanding, 2)

	_, err = ledger.Claim(ctx, "ent-2", "0xaaa")
	require.NoError(t, err)

	// re-list from a stale snapshot: claim the already-claimed one too
	var outcomes []ClaimOutcome
	for _, ent := range outstanding {
		out := ClaimOutcome{EntitlementID: ent.ID}
		if res, err := ledger.Claim(ctx, ent.ID, "0xaaa"); err != nil {
			out.Err = err
		} else {
			out.AmountCents = res.AmountCents
		}
		outcomes = append(outcomes, out)
	}
	require.Len(t, outcomes, 2)
	assert.NoError(t, outcomes[0].Err)
	assert.Equal(t, int64(100), outcomes[0].AmountCents)
	assert.ErrorIs(t, outcomes[1].Err, ErrAlreadyClaimed)
}
