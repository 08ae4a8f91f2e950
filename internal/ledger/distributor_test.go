package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

func seedPendingEvent(store *memStore, id, ipoID string, amount int64) {
	store.events[id] = &model.RevenueEvent{
		ID:          id,
		MasterIPOID: ipoID,
		AmountCents: amount,
		Currency:    "USD",
		SourceType:  model.RevenueSourceStreaming,
		Status:      model.RevenueStatusPending,
		RecordedAt:  testNow,
	}
}

func TestRevenueDistributor_RecordRevenueEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("records a pending event with the ipo currency", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		ev, err := dist.RecordRevenueEvent(ctx, RecordRevenueInput{
			MasterIPOID: "ipo-1",
			AmountCents: 10000,
			SourceType:  model.RevenueSourceStreaming,
		})
		require.NoError(t, err)
		assert.Equal(t, model.RevenueStatusPending, ev.Status)
		assert.Equal(t, "USD", ev.Currency)
		assert.Equal(t, testNow, ev.RecordedAt)
		assert.Nil(t, ev.ProcessedAt)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		_, err := dist.RecordRevenueEvent(ctx, RecordRevenueInput{MasterIPOID: "ipo-1", AmountCents: 0, SourceType: model.RevenueSourceSync})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = dist.RecordRevenueEvent(ctx, RecordRevenueInput{MasterIPOID: "ipo-1", AmountCents: 100, SourceType: "JINGLE"})
		assert.ErrorIs(t, err, ErrInvalidAmount)

		_, err = dist.RecordRevenueEvent(ctx, RecordRevenueInput{MasterIPOID: "nope", AmountCents: 100, SourceType: model.RevenueSourceSale})
		assert.ErrorIs(t, err, ErrMasterIPONotFound)
	})
}

func TestRevenueDistributor_ProcessRevenueEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("splits the pool proportionally", func(t *testing.T) {
		// 40% holder share of a 100.00 deposit -> 40.00 pool over
		// 15 units: A holds 10 (rank 1), B holds 5 (rank 2).
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
		seedHolder(store, "pos-b", "ipo-1", "0xbbb", 5, 2)
		seedPendingEvent(store, "ev-1", "ipo-1", 10000)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		res, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4000), res.PoolCents)
		assert.Equal(t, model.RevenueStatusProcessed, res.Event.Status)
		require.NotNil(t, res.Event.ProcessedAt)

		require.Len(t, res.Entitlements, 2)
		assert.Equal(t, "pos-a", res.Entitlements[0].HolderPositionID)
		assert.Equal(t, int64(2667), res.Entitlements[0].AmountCents) // 2666.67 rounded
		assert.Equal(t, int64(1333), res.Entitlements[1].AmountCents)
		assert.Equal(t, model.EntitlementStatusClaimable, res.Entitlements[0].Status)
	})

	t.Run("rounding residual goes to the earliest holder", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		ipo := store.ipos["ipo-1"]
		ipo.HolderRevenueSharePercent = 100
		ipo.ArtistRetainedPercent = 0
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 1, 1)
		seedHolder(store, "pos-b", "ipo-1", "0xbbb", 1, 2)
		seedHolder(store, "pos-c", "ipo-1", "0xccc", 1, 3)
		seedPendingEvent(store, "ev-1", "ipo-1", 100) // pool 100 over 3 units
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		res, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		// 33.33 each rounds to 33; the 1 cent residual lands on rank 1
		assert.Equal(t, int64(34), res.Entitlements[0].AmountCents)
		assert.Equal(t, int64(33), res.Entitlements[1].AmountCents)
		assert.Equal(t, int64(33), res.Entitlements[2].AmountCents)

		var sum int64
		for _, e := range res.Entitlements {
			sum += e.AmountCents
		}
		assert.Equal(t, res.PoolCents, sum) // conservation, no leakage
	})

	t.Run("zero quantity positions get no entitlement", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 0, 1)
		seedHolder(store, "pos-b", "ipo-1", "0xbbb", 5, 2)
		seedPendingEvent(store, "ev-1", "ipo-1", 10000)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		res, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		require.Len(t, res.Entitlements, 1)
		assert.Equal(t, "pos-b", res.Entitlements[0].HolderPositionID)
		assert.Equal(t, res.PoolCents, res.Entitlements[0].AmountCents)
	})

	t.Run("no minted units is a valid terminal state", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedPendingEvent(store, "ev-1", "ipo-1", 10000)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		res, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		assert.Empty(t, res.Entitlements)
		assert.Equal(t, int64(4000), res.PoolCents)

		ev, _ := store.RevenueEvent(ctx, "ev-1")
		assert.Equal(t, model.RevenueStatusProcessed, ev.Status)
	})

	t.Run("second call is a no-op conflict", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
		seedPendingEvent(store, "ev-1", "ipo-1", 10000)
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		_, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		before := len(store.entitlements)

		_, err = dist.ProcessRevenueEvent(ctx, "ev-1")
		assert.ErrorIs(t, err, ErrAlreadyProcessed)
		assert.Equal(t, before, len(store.entitlements))
	})

	t.Run("failed batch rolls the whole transaction back", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-a", "ipo-1", "0xaaa", 10, 1)
		seedPendingEvent(store, "ev-1", "ipo-1", 10000)
		boom := errors.New("insert failed")
		store.failOn["CreateEntitlements"] = boom
		dist := NewRevenueDistributor(store, clock.NewFixed(testNow))

		_, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		assert.ErrorIs(t, err, boom)

		// the event must still be pending and re-processable
		ev, _ := store.RevenueEvent(ctx, "ev-1")
		assert.Equal(t, model.RevenueStatusPending, ev.Status)
		assert.Empty(t, store.entitlements)

		delete(store.failOn, "CreateEntitlements")
		res, err := dist.ProcessRevenueEvent(ctx, "ev-1")
		require.NoError(t, err)
		assert.Len(t, res.Entitlements, 1)
	})

	t.Run("unknown event", func(t *testing.T) {
		dist := NewRevenueDistributor(newMemStore(), clock.NewFixed(testNow))
		_, err := dist.ProcessRevenueEvent(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
