package model

import "time"

// Dividend entitlement statuses. Entitlements are created CLAIMABLE and move
// to CLAIMED exactly once.
const (
	EntitlementStatusClaimable = "CLAIMABLE"
	EntitlementStatusClaimed   = "CLAIMED"
)

// DividendEntitlement is one holder's computed share of one processed
// revenue event. The full batch for an event is created atomically with the
// event's PENDING -> PROCESSED transition; there is never a partial batch.
//
// Fields:
//  ID               – opaque identifier (UUID).
//  RevenueEventID   – the processed event this share derives from.
//  MasterIPOID      – denormalized IPO reference for per-wallet listing.
//  HolderPositionID – the position the share was computed against.
//  AmountCents      – proportional share in currency minor units.
//  Currency         – ISO currency code.
//  Status           – CLAIMABLE or CLAIMED.
//  CreatedAt        – batch creation time.
//  ClaimedAt        – claim time (nil while claimable).
type DividendEntitlement struct {
	ID               string     // dividend_entitlements.id
	RevenueEventID   string     // dividend_entitlements.revenue_event_id
	MasterIPOID      string     // dividend_entitlements.master_ipo_id
	HolderPositionID string     // dividend_entitlements.holder_position_id
	AmountCents      int64      // dividend_entitlements.amount_cents
	Currency         string     // dividend_entitlements.currency
	Status           string     // dividend_entitlements.status
	CreatedAt        time.Time  // dividend_entitlements.created_at
	ClaimedAt        *time.Time // dividend_entitlements.claimed_at (nullable)
}
