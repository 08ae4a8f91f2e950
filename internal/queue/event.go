// Package queue defines message payloads exchanged over the message broker
// and the background consumer that feeds revenue into the ledger.
package queue

// RevenueRecordedEvent arrives on the revenue.recorded queue when an
// upstream royalty collector books revenue against an offering. The
// consumer records it as a pending revenue event and runs the
// distribution.
type RevenueRecordedEvent struct {
	MasterIPOID string `json:"master_ipo_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	SourceType  string `json:"source_type"`
}

// DividendProcessedEvent is published to the dividend.processed queue after
// a distribution commits. It carries enough for downstream consumers to
// notify holders or feed analytics without querying the primary database.
type DividendProcessedEvent struct {
	RevenueEventID   string `json:"revenue_event_id"`
	MasterIPOID      string `json:"master_ipo_id"`
	AmountCents      int64  `json:"amount_cents"`
	PoolCents        int64  `json:"pool_cents"`
	Currency         string `json:"currency"`
	EntitlementCount int    `json:"entitlement_count"`
	ProcessedAt      string `json:"processed_at"`
}
