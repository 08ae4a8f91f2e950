package model

import "time"

// Revenue event statuses. Events arrive PENDING and become PROCESSED when a
// dividend distribution has been computed for them. A processed event is
// immutable.
const (
	RevenueStatusPending   = "PENDING"
	RevenueStatusProcessed = "PROCESSED"
)

// Revenue source types.
const (
	RevenueSourceStreaming = "STREAMING"
	RevenueSourceSync      = "SYNC"
	RevenueSourceSale      = "SALE"
	RevenueSourceOther     = "OTHER"
)

// RevenueEvent is an external deposit of revenue against a Master IPO,
// submitted by the artist over HTTP or by an ingestion job over the queue.
//
// Fields:
//  ID          – opaque identifier (UUID).
//  MasterIPOID – the IPO the revenue belongs to.
//  AmountCents – deposit amount in currency minor units.
//  Currency    – ISO currency code.
//  SourceType  – one of the RevenueSource* constants.
//  Status      – PENDING until distributed, then PROCESSED.
//  RecordedAt  – when the event was recorded.
//  ProcessedAt – when distribution ran (nil while pending).
type RevenueEvent struct {
	ID          string     // revenue_events.id
	MasterIPOID string     // revenue_events.master_ipo_id
	AmountCents int64      // revenue_events.amount_cents
	Currency    string     // revenue_events.currency
	SourceType  string     // revenue_events.source_type
	Status      string     // revenue_events.status
	RecordedAt  time.Time  // revenue_events.recorded_at
	ProcessedAt *time.Time // revenue_events.processed_at (nullable)
}

// ValidRevenueSource reports whether s is a known source type.
func ValidRevenueSource(s string) bool {
	switch s {
	case RevenueSourceStreaming, RevenueSourceSync, RevenueSourceSale, RevenueSourceOther:
		return true
	}
	return false
}
