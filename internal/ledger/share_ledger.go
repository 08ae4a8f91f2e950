package ledger

import (
	"context"

	"github.com/google/uuid"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

// ShareStore is the storage surface the ShareLedger needs. WithTx must run
// fn inside a single transaction: every store call made with the ctx it
// passes to fn joins that transaction, and returning an error rolls the
// whole transaction back. MasterIPOForUpdate must take a row-level lock (or
// the store's equivalent) on the IPO so concurrent mints serialize on the
// supply counter.
type ShareStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateMasterIPO(ctx context.Context, ipo *model.MasterIPO) error
	MasterIPO(ctx context.Context, id string) (*model.MasterIPO, error)
	MasterIPOForUpdate(ctx context.Context, id string) (*model.MasterIPO, error)
	SetSupplyAndStatus(ctx context.Context, id string, minted int64, status string) error
	TransitionIPOStatus(ctx context.Context, id, from, to string) (bool, error)
	HolderPosition(ctx context.Context, ipoID, wallet string) (*model.HolderPosition, error)
	AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error)
	HolderCount(ctx context.Context, ipoID string) (int, error)
	CreateHolderPosition(ctx context.Context, pos *model.HolderPosition) error
	SetHolderQuantity(ctx context.Context, id string, qty int64) error
}

// ShareLedger is the authoritative source of supply and holder state for
// Master IPOs: lifecycle transitions, primary-sale mints with mint-order
// rank assignment, and transfers between wallets.
type ShareLedger struct {
	store ShareStore
	clock clock.Clock
}

// NewShareLedger binds a ShareLedger to its store and clock.
func NewShareLedger(store ShareStore, clk clock.Clock) *ShareLedger {
	return &ShareLedger{store: store, clock: clk}
}

// CreateDraftInput carries everything needed to open a new DRAFT offering.
// Tier percents of zero fall back to the 10/5/3/1 default schedule when
// none of the four is set.
type CreateDraftInput struct {
	ArtistWallet              string
	Title                     string
	TotalSupply               int64
	PriceCents                int64
	Currency                  string
	HolderRevenueSharePercent int
	ArtistRetainedPercent     int
	Collaborators             []model.CollaboratorShare
	Tier1Percent              int
	Tier2Percent              int
	Tier3Percent              int
	Tier4PlusPercent          int
}

// Default Mover Advantage schedule: 10% to the first minter, 5% to the
// second, 3% to the third, 1% to each later minter.
const (
	defaultTier1Percent     = 10
	defaultTier2Percent     = 5
	defaultTier3Percent     = 3
	defaultTier4PlusPercent = 1
)

// CreateDraft opens a new Master IPO in DRAFT. The revenue-split invariant
// is only enforced at launch so artists can stage an incomplete split.
func (s *ShareLedger) CreateDraft(ctx context.Context, in CreateDraftInput) (model.MasterIPO, error) {
	if in.TotalSupply < 1 {
		return model.MasterIPO{}, ErrInvalidQuantity
	}
	if in.PriceCents <= 0 {
		return model.MasterIPO{}, ErrInvalidAmount
	}

	now := s.clock.Now()
	ipo := model.MasterIPO{
		ID:                        uuid.NewString(),
		ArtistWallet:              in.ArtistWallet,
		Title:                     in.Title,
		TotalSupply:               in.TotalSupply,
		MintedSupply:              0,
		PriceCents:                in.PriceCents,
		Currency:                  in.Currency,
		HolderRevenueSharePercent: in.HolderRevenueSharePercent,
		ArtistRetainedPercent:     in.ArtistRetainedPercent,
		Status:                    model.IPOStatusDraft,
		Tier1Percent:              in.Tier1Percent,
		Tier2Percent:              in.Tier2Percent,
		Tier3Percent:              in.Tier3Percent,
		Tier4PlusPercent:          in.Tier4PlusPercent,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}
	if ipo.Tier1Percent == 0 && ipo.Tier2Percent == 0 && ipo.Tier3Percent == 0 && ipo.Tier4PlusPercent == 0 {
		ipo.Tier1Percent = defaultTier1Percent
		ipo.Tier2Percent = defaultTier2Percent
		ipo.Tier3Percent = defaultTier3Percent
		ipo.Tier4PlusPercent = defaultTier4PlusPercent
	}
	for i := range in.Collaborators {
		c := in.Collaborators[i]
		c.ID = uuid.NewString()
		c.MasterIPOID = ipo.ID
		c.Position = i + 1
		ipo.Collaborators = append(ipo.Collaborators, c)
	}

	if err := s.store.CreateMasterIPO(ctx, &ipo); err != nil {
		return model.MasterIPO{}, err
	}
	return ipo, nil
}

// Launch moves a DRAFT offering to ACTIVE after validating that holder,
// artist and collaborator percents sum to exactly 100.
func (s *ShareLedger) Launch(ctx context.Context, ipoID string) (model.MasterIPO, error) {
	var launched model.MasterIPO
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		ipo, err := s.store.MasterIPOForUpdate(ctx, ipoID)
		if err != nil {
			return err
		}
		if ipo.Status != model.IPOStatusDraft {
			return ErrIPONotDraft
		}
		if ipo.SplitTotal() != 100 {
			return ErrInvalidSplit
		}
		ok, err := s.store.TransitionIPOStatus(ctx, ipoID, model.IPOStatusDraft, model.IPOStatusActive)
		if err != nil {
			return err
		}
		if !ok {
			return ErrIPONotDraft
		}
		ipo.Status = model.IPOStatusActive
		launched = *ipo
		return nil
	})
	if err != nil {
		return model.MasterIPO{}, err
	}
	return launched, nil
}

// Close ends an ACTIVE offering before it sells out.
func (s *ShareLedger) Close(ctx context.Context, ipoID string) error {
	ok, err := s.store.TransitionIPOStatus(ctx, ipoID, model.IPOStatusActive, model.IPOStatusClosed)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIPONotActive
	}
	return nil
}

// Cancel abandons a DRAFT offering. Active offerings cannot be cancelled;
// they close instead so existing holder state stays intact.
func (s *ShareLedger) Cancel(ctx context.Context, ipoID string) error {
	ok, err := s.store.TransitionIPOStatus(ctx, ipoID, model.IPOStatusDraft, model.IPOStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrIPONotDraft
	}
	return nil
}

// MintResult reports the outcome of a successful mint.
type MintResult struct {
	QuantityHeld    int64 // wallet's holdings after the mint
	MintOrderRank   int   // rank assigned on first mint, stable afterwards
	RemainingSupply int64 // units still mintable
	SoldOut         bool  // true when this mint consumed the final unit
}

// RecordMint sells quantity freshly issued units to wallet. Supply and
// holder state move in one transaction: either minted supply and the
// wallet's position both update, or neither does. The mint that would
// exceed total supply fails with ErrSupplyExhausted and changes nothing.
// A wallet's mint-order rank is assigned on its first units and never
// changes after that. Minting the final unit closes the offering.
func (s *ShareLedger) RecordMint(ctx context.Context, ipoID, wallet string, quantity int64) (MintResult, error) {
	if quantity <= 0 {
		return MintResult{}, ErrInvalidQuantity
	}

	var res MintResult
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		ipo, err := s.store.MasterIPOForUpdate(ctx, ipoID)
		if err != nil {
			return err
		}
		// Supply before status: a sold-out offering closes itself, and a
		// mint against it should still report exhaustion, not the status.
		if ipo.MintedSupply+quantity > ipo.TotalSupply {
			return ErrSupplyExhausted
		}
		if ipo.Status != model.IPOStatusActive {
			return ErrIPONotActive
		}

		pos, err := s.store.HolderPosition(ctx, ipoID, wallet)
		switch {
		case err == ErrNotFound:
			count, err := s.store.HolderCount(ctx, ipoID)
			if err != nil {
				return err
			}
			now := s.clock.Now()
			pos = &model.HolderPosition{
				ID:            uuid.NewString(),
				MasterIPOID:   ipoID,
				Wallet:        wallet,
				QuantityHeld:  quantity,
				MintOrderRank: count + 1,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := s.store.CreateHolderPosition(ctx, pos); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			pos.QuantityHeld += quantity
			if err := s.store.SetHolderQuantity(ctx, pos.ID, pos.QuantityHeld); err != nil {
				return err
			}
		}

		minted := ipo.MintedSupply + quantity
		status := ipo.Status
		if minted == ipo.TotalSupply {
			status = model.IPOStatusClosed
		}
		if err := s.store.SetSupplyAndStatus(ctx, ipoID, minted, status); err != nil {
			return err
		}

		res = MintResult{
			QuantityHeld:    pos.QuantityHeld,
			MintOrderRank:   pos.MintOrderRank,
			RemainingSupply: ipo.TotalSupply - minted,
			SoldOut:         minted == ipo.TotalSupply,
		}
		return nil
	})
	if err != nil {
		return MintResult{}, err
	}
	return res, nil
}

// RecordTransfer moves quantity units between wallets on the secondary
// market. The sender's row is kept at zero quantity so its mint-order rank
// survives; a receiving wallet that never held units before gets a position
// with the next rank.
func (s *ShareLedger) RecordTransfer(ctx context.Context, ipoID, fromWallet, toWallet string, quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	return s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.MasterIPOForUpdate(ctx, ipoID); err != nil {
			return err
		}
		from, err := s.store.HolderPosition(ctx, ipoID, fromWallet)
		if err != nil {
			return err
		}
		if from.QuantityHeld < quantity {
			return ErrInsufficientUnits
		}
		if err := s.store.SetHolderQuantity(ctx, from.ID, from.QuantityHeld-quantity); err != nil {
			return err
		}

		to, err := s.store.HolderPosition(ctx, ipoID, toWallet)
		switch {
		case err == ErrNotFound:
			count, err := s.store.HolderCount(ctx, ipoID)
			if err != nil {
				return err
			}
			now := s.clock.Now()
			to = &model.HolderPosition{
				ID:            uuid.NewString(),
				MasterIPOID:   ipoID,
				Wallet:        toWallet,
				QuantityHeld:  quantity,
				MintOrderRank: count + 1,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			return s.store.CreateHolderPosition(ctx, to)
		case err != nil:
			return err
		default:
			return s.store.SetHolderQuantity(ctx, to.ID, to.QuantityHeld+quantity)
		}
	})
}

// RemainingSupply returns totalSupply - mintedSupply for the IPO.
func (s *ShareLedger) RemainingSupply(ctx context.Context, ipoID string) (int64, error) {
	ipo, err := s.store.MasterIPO(ctx, ipoID)
	if err != nil {
		return 0, err
	}
	return ipo.RemainingSupply(), nil
}

// Holder returns the position of one wallet within one IPO.
func (s *ShareLedger) Holder(ctx context.Context, ipoID, wallet string) (*model.HolderPosition, error) {
	if _, err := s.store.MasterIPO(ctx, ipoID); err != nil {
		return nil, err
	}
	return s.store.HolderPosition(ctx, ipoID, wallet)
}

// AllHolders returns every holder position of the IPO ordered by mint-order
// rank ascending. This is the snapshot the RevenueDistributor works from.
func (s *ShareLedger) AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error) {
	if _, err := s.store.MasterIPO(ctx, ipoID); err != nil {
		return nil, err
	}
	return s.store.AllHolders(ctx, ipoID)
}
