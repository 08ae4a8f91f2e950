package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

func seedHolder(store *memStore, id, ipoID, wallet string, qty int64, rank int) {
	store.positions[id] = &model.HolderPosition{
		ID:            id,
		MasterIPOID:   ipoID,
		Wallet:        wallet,
		QuantityHeld:  qty,
		MintOrderRank: rank,
		CreatedAt:     testNow,
		UpdatedAt:     testNow,
	}
}

func TestMoverAdvantage_ComputeSplit(t *testing.T) {
	ctx := context.Background()

	t.Run("two holders, missing tiers fold into seller remainder", func(t *testing.T) {
		// Resale at 10.00 with only ranks 1 and 2 ever minted: applied
		// tiers are 10% + 5%, seller keeps 85%.
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-1", "ipo-1", "0xaaa", 10, 1)
		seedHolder(store, "pos-2", "ipo-1", "0xbbb", 5, 2)
		calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

		split, err := calc.ComputeSplit(ctx, "ipo-1", 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(850), split.SellerProceedsCents)
		require.Len(t, split.Payouts, 2)
		assert.Equal(t, TierPayout{Wallet: "0xaaa", Rank: 1, AmountCents: 100}, split.Payouts[0])
		assert.Equal(t, TierPayout{Wallet: "0xbbb", Rank: 2, AmountCents: 50}, split.Payouts[1])

		var paid int64
		for _, p := range split.Payouts {
			paid += p.AmountCents
		}
		assert.Equal(t, int64(1000), split.SellerProceedsCents+paid)
	})

	t.Run("all four tiers applied", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-1", "ipo-1", "0xaaa", 1, 1)
		seedHolder(store, "pos-2", "ipo-1", "0xbbb", 1, 2)
		seedHolder(store, "pos-3", "ipo-1", "0xccc", 1, 3)
		seedHolder(store, "pos-4", "ipo-1", "0xddd", 1, 4)
		calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

		split, err := calc.ComputeSplit(ctx, "ipo-1", 10000)
		require.NoError(t, err)
		// 10 + 5 + 3 + 1 applied, seller keeps 81%
		assert.Equal(t, int64(8100), split.SellerProceedsCents)
		require.Len(t, split.Payouts, 4)
		assert.Equal(t, int64(1000), split.Payouts[0].AmountCents)
		assert.Equal(t, int64(500), split.Payouts[1].AmountCents)
		assert.Equal(t, int64(300), split.Payouts[2].AmountCents)
		assert.Equal(t, int64(100), split.Payouts[3].AmountCents)
	})

	t.Run("each rank four plus holder is paid individually", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		for i, w := range []string{"0xa", "0xb", "0xc", "0xd", "0xe", "0xf"} {
			seedHolder(store, w, "ipo-1", w, 1, i+1)
		}
		calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

		split, err := calc.ComputeSplit(ctx, "ipo-1", 10000)
		require.NoError(t, err)
		require.Len(t, split.Payouts, 6)
		// ranks 4, 5 and 6 each get the flat 1%, no shared pool
		assert.Equal(t, int64(100), split.Payouts[3].AmountCents)
		assert.Equal(t, int64(100), split.Payouts[4].AmountCents)
		assert.Equal(t, int64(100), split.Payouts[5].AmountCents)
		// 10+5+3+1+1+1 = 21 applied
		assert.Equal(t, int64(7900), split.SellerProceedsCents)
	})

	t.Run("zero quantity position still holds its rank", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-1", "ipo-1", "0xaaa", 0, 1) // transferred everything out
		seedHolder(store, "pos-2", "ipo-1", "0xbbb", 10, 2)
		calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

		split, err := calc.ComputeSplit(ctx, "ipo-1", 1000)
		require.NoError(t, err)
		require.Len(t, split.Payouts, 2)
		assert.Equal(t, "0xaaa", split.Payouts[0].Wallet)
		assert.Equal(t, int64(100), split.Payouts[0].AmountCents)
	})

	t.Run("proceeds plus payouts never exceed the sale price", func(t *testing.T) {
		store := newMemStore()
		activeIPO(store, "ipo-1", 100)
		seedHolder(store, "pos-1", "ipo-1", "0xaaa", 1, 1)
		seedHolder(store, "pos-2", "ipo-1", "0xbbb", 1, 2)
		seedHolder(store, "pos-3", "ipo-1", "0xccc", 1, 3)
		calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

		for _, price := range []int64{1, 3, 7, 15, 99, 101, 12345} {
			split, err := calc.ComputeSplit(ctx, "ipo-1", price)
			require.NoError(t, err)
			var paid int64
			for _, p := range split.Payouts {
				paid += p.AmountCents
				assert.NotZero(t, p.AmountCents) // zero lines are dropped
			}
			assert.LessOrEqual(t, split.SellerProceedsCents+paid, price)
		}
	})

	t.Run("unknown ipo", func(t *testing.T) {
		calc := NewMoverAdvantage(newMemStore(), clock.NewFixed(testNow))
		_, err := calc.ComputeSplit(ctx, "nope", 1000)
		assert.ErrorIs(t, err, ErrMasterIPONotFound)
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		calc := NewMoverAdvantage(newMemStore(), clock.NewFixed(testNow))
		_, err := calc.ComputeSplit(ctx, "ipo-1", 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestMoverAdvantage_RecordResale(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	activeIPO(store, "ipo-1", 100)
	seedHolder(store, "pos-1", "ipo-1", "0xaaa", 10, 1)
	seedHolder(store, "pos-2", "ipo-1", "0xbbb", 5, 2)
	calc := NewMoverAdvantage(store, clock.NewFixed(testNow))

	resale, err := calc.RecordResale(ctx, RecordResaleInput{
		MasterIPOID:  "ipo-1",
		SellerWallet: "0xbbb",
		BuyerWallet:  "0xccc",
		PriceCents:   1000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(850), resale.SellerProceedsCents)
	assert.Equal(t, "USD", resale.Currency)
	assert.Equal(t, testNow, resale.RecordedAt)
	require.Len(t, resale.Payouts, 2)
	assert.Equal(t, resale.ID, resale.Payouts[0].ResaleID)

	stored, ok := store.resales[resale.ID]
	require.True(t, ok)
	assert.Equal(t, int64(1000), stored.SalePriceCents)
}
