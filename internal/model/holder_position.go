package model

import "time"

// HolderPosition records one wallet's cumulative holdings within one Master
// IPO along with the rank at which its first unit was minted. The rank
// drives Mover Advantage payouts and is assigned exactly once: later mints,
// transfers and claims never change it. Rows are kept at zero quantity so
// the rank history survives a full transfer out.
//
// Fields:
//  ID            – opaque identifier (UUID).
//  MasterIPOID   – the IPO this position belongs to.
//  Wallet        – holder wallet address.
//  QuantityHeld  – units currently held; >= 0.
//  MintOrderRank – 1-based position among distinct holders at first mint.
//  CreatedAt     – when the wallet first minted.
//  UpdatedAt     – last quantity change.
type HolderPosition struct {
	ID            string    // holder_positions.id
	MasterIPOID   string    // holder_positions.master_ipo_id
	Wallet        string    // holder_positions.wallet
	QuantityHeld  int64     // holder_positions.quantity_held
	MintOrderRank int       // holder_positions.mint_order_rank
	CreatedAt     time.Time // holder_positions.created_at
	UpdatedAt     time.Time // holder_positions.updated_at
}
