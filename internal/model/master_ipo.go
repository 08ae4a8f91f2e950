package model

import "time"

// MasterIPO statuses. An IPO is created as DRAFT, launched to ACTIVE, and
// ends in CLOSED (sold out or ended by the artist) or CANCELLED. Once
// ACTIVE only MintedSupply and Status may change.
const (
	IPOStatusDraft     = "DRAFT"
	IPOStatusActive    = "ACTIVE"
	IPOStatusClosed    = "CLOSED"
	IPOStatusCancelled = "CANCELLED"
)

// MasterIPO is a tokenized music master offering: a fixed supply of
// fractional NFT units sold against one recording, plus the revenue-split
// and resale-royalty configuration applied to it.
//
// Fields:
//  ID                       – opaque identifier (UUID).
//  ArtistWallet             – wallet of the artist who created the offering.
//  Title                    – display title of the master recording.
//  TotalSupply              – number of units that can ever be minted (>= 1).
//  MintedSupply             – units minted so far; never exceeds TotalSupply.
//  PriceCents               – primary-sale price per unit in currency minor units.
//  Currency                 – ISO currency code the amounts are denominated in.
//  HolderRevenueSharePercent – percent of each revenue event paid to holders.
//  ArtistRetainedPercent    – percent retained by the artist.
//  Status                   – lifecycle status (see constants above).
//  Tier1/2/3Percent         – Mover Advantage percents for mint ranks 1-3.
//  Tier4PlusPercent         – percent paid to each holder ranked 4 or later.
//  CreatedAt / UpdatedAt    – row timestamps.
//
// Invariant: HolderRevenueSharePercent + ArtistRetainedPercent + the sum of
// collaborator percents equals 100. Enforced at launch time.
type MasterIPO struct {
	ID                        string    // master_ipos.id
	ArtistWallet              string    // master_ipos.artist_wallet
	Title                     string    // master_ipos.title
	TotalSupply               int64     // master_ipos.total_supply
	MintedSupply              int64     // master_ipos.minted_supply
	PriceCents                int64     // master_ipos.price_cents
	Currency                  string    // master_ipos.currency
	HolderRevenueSharePercent int       // master_ipos.holder_revenue_share_percent
	ArtistRetainedPercent     int       // master_ipos.artist_retained_percent
	Status                    string    // master_ipos.status
	Tier1Percent              int       // master_ipos.tier1_percent
	Tier2Percent              int       // master_ipos.tier2_percent
	Tier3Percent              int       // master_ipos.tier3_percent
	Tier4PlusPercent          int       // master_ipos.tier4_plus_percent
	CreatedAt                 time.Time // master_ipos.created_at
	UpdatedAt                 time.Time // master_ipos.updated_at

	Collaborators []CollaboratorShare // loaded with the IPO; empty when none
}

// CollaboratorShare assigns a fixed percent of revenue to a collaborator
// (producer, feature, label) on one Master IPO. Ordered by Position.
type CollaboratorShare struct {
	ID          string // collaborator_shares.id
	MasterIPOID string // collaborator_shares.master_ipo_id
	Wallet      string // collaborator_shares.wallet
	Percent     int    // collaborator_shares.percent
	Position    int    // collaborator_shares.position
}

// RemainingSupply returns the unminted unit count; never negative.
func (m *MasterIPO) RemainingSupply() int64 {
	if m.MintedSupply >= m.TotalSupply {
		return 0
	}
	return m.TotalSupply - m.MintedSupply
}

// SplitTotal is the sum of all configured revenue-split percents. Launch
// requires it to be exactly 100.
func (m *MasterIPO) SplitTotal() int {
	total := m.HolderRevenueSharePercent + m.ArtistRetainedPercent
	for _, c := range m.Collaborators {
		total += c.Percent
	}
	return total
}
