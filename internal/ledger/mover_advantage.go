package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

// MoverStore is the storage surface the Mover Advantage calculator needs.
type MoverStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	MasterIPO(ctx context.Context, id string) (*model.MasterIPO, error)
	AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error)
	CreateResale(ctx context.Context, resale *model.ResaleTransaction) error
}

// MoverAdvantage computes the split of a secondary-sale price between the
// seller and early minters using the IPO's four-tier schedule: fixed
// percents for mint ranks 1, 2 and 3, and a flat per-holder percent for
// every rank of 4 or later. Each rank-4+ holder receives that percent of
// the sale price individually; it is not a shared pool. A tier only pays
// out when a holder position exists at its rank — with fewer than three
// distinct holders the missing tiers are skipped, their percent folds into
// the seller's remainder and nothing is redistributed.
type MoverAdvantage struct {
	store MoverStore
	clock clock.Clock
}

// NewMoverAdvantage binds the calculator to its store and clock.
func NewMoverAdvantage(store MoverStore, clk clock.Clock) *MoverAdvantage {
	return &MoverAdvantage{store: store, clock: clk}
}

// TierPayout is one early-minter royalty line of a computed split.
type TierPayout struct {
	Wallet      string
	Rank        int
	AmountCents int64
}

// ResaleSplit is the outcome of ComputeSplit. SellerProceedsCents plus the
// payout amounts never exceeds the sale price.
type ResaleSplit struct {
	SalePriceCents      int64
	SellerProceedsCents int64
	Payouts             []TierPayout
}

// ComputeSplit prices the Mover Advantage schedule against the IPO's
// current holder roster. Holder positions at zero quantity still occupy
// their rank and still receive their tier payout; the rank was earned at
// mint time and survives transfers out. Only nonzero payout lines are
// returned. Amounts round half to even; when rounding would push the total
// past the sale price the seller side absorbs the difference.
func (m *MoverAdvantage) ComputeSplit(ctx context.Context, ipoID string, salePriceCents int64) (ResaleSplit, error) {
	if salePriceCents <= 0 {
		return ResaleSplit{}, ErrInvalidAmount
	}
	ipo, err := m.store.MasterIPO(ctx, ipoID)
	if err != nil {
		return ResaleSplit{}, err
	}
	holders, err := m.store.AllHolders(ctx, ipoID)
	if err != nil {
		return ResaleSplit{}, err
	}
	return computeSplit(ipo, holders, salePriceCents), nil
}

func computeSplit(ipo *model.MasterIPO, holders []model.HolderPosition, salePriceCents int64) ResaleSplit {
	split := ResaleSplit{SalePriceCents: salePriceCents}

	appliedPct := 0
	var paid int64
	for _, h := range holders {
		var pct int
		switch h.MintOrderRank {
		case 1:
			pct = ipo.Tier1Percent
		case 2:
			pct = ipo.Tier2Percent
		case 3:
			pct = ipo.Tier3Percent
		default:
			pct = ipo.Tier4PlusPercent
		}
		if pct <= 0 {
			continue
		}
		amount := percentOf(salePriceCents, pct)
		appliedPct += pct
		if amount == 0 {
			continue
		}
		paid += amount
		split.Payouts = append(split.Payouts, TierPayout{
			Wallet:      h.Wallet,
			Rank:        h.MintOrderRank,
			AmountCents: amount,
		})
	}

	sellerPct := 100 - appliedPct
	if sellerPct < 0 {
		sellerPct = 0
	}
	proceeds := percentOf(salePriceCents, sellerPct)
	if proceeds+paid > salePriceCents {
		proceeds = salePriceCents - paid
	}
	split.SellerProceedsCents = proceeds
	return split
}

// RecordResaleInput identifies the unit changing hands and its price.
type RecordResaleInput struct {
	MasterIPOID  string
	SellerWallet string
	BuyerWallet  string
	PriceCents   int64
}

// RecordResale computes the split and persists the resale with its payout
// lines in one transaction. It does not move the underlying units; callers
// pair it with ShareLedger.RecordTransfer when the transfer settles.
func (m *MoverAdvantage) RecordResale(ctx context.Context, in RecordResaleInput) (model.ResaleTransaction, error) {
	if in.PriceCents <= 0 {
		return model.ResaleTransaction{}, ErrInvalidAmount
	}

	var resale model.ResaleTransaction
	err := m.store.WithTx(ctx, func(ctx context.Context) error {
		ipo, err := m.store.MasterIPO(ctx, in.MasterIPOID)
		if err != nil {
			return err
		}
		holders, err := m.store.AllHolders(ctx, in.MasterIPOID)
		if err != nil {
			return err
		}
		split := computeSplit(ipo, holders, in.PriceCents)

		resale = model.ResaleTransaction{
			ID:                  uuid.NewString(),
			MasterIPOID:         in.MasterIPOID,
			SellerWallet:        in.SellerWallet,
			BuyerWallet:         in.BuyerWallet,
			SalePriceCents:      split.SalePriceCents,
			SellerProceedsCents: split.SellerProceedsCents,
			Currency:            ipo.Currency,
			RecordedAt:          m.clock.Now(),
		}
		for _, p := range split.Payouts {
			resale.Payouts = append(resale.Payouts, model.MoverPayout{
				ID:          uuid.NewString(),
				ResaleID:    resale.ID,
				Wallet:      p.Wallet,
				Rank:        p.Rank,
				AmountCents: p.AmountCents,
			})
		}
		return m.store.CreateResale(ctx, &resale)
	})
	if err != nil {
		return model.ResaleTransaction{}, err
	}
	return resale, nil
}
