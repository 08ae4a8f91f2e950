package model

import "time"

// ResaleTransaction is the off-ledger record of one secondary sale and the
// Mover Advantage split computed for it. The payout rows persist which early
// minters were owed what at sale time.
//
// Fields:
//  ID                 – opaque identifier (UUID).
//  MasterIPOID        – the IPO whose unit changed hands.
//  SellerWallet       – wallet selling the unit.
//  BuyerWallet        – wallet buying the unit.
//  SalePriceCents     – agreed price in currency minor units.
//  SellerProceedsCents – what the seller keeps after the tier payouts.
//  Currency           – ISO currency code.
//  RecordedAt         – when the resale was recorded.
type ResaleTransaction struct {
	ID                  string    // resale_transactions.id
	MasterIPOID         string    // resale_transactions.master_ipo_id
	SellerWallet        string    // resale_transactions.seller_wallet
	BuyerWallet         string    // resale_transactions.buyer_wallet
	SalePriceCents      int64     // resale_transactions.sale_price_cents
	SellerProceedsCents int64     // resale_transactions.seller_proceeds_cents
	Currency            string    // resale_transactions.currency
	RecordedAt          time.Time // resale_transactions.recorded_at

	Payouts []MoverPayout // one row per early minter paid
}

// MoverPayout is a single early-minter royalty line within a resale.
type MoverPayout struct {
	ID          string // mover_payouts.id
	ResaleID    string // mover_payouts.resale_id
	Wallet      string // mover_payouts.wallet
	Rank        int    // mover_payouts.rank
	AmountCents int64  // mover_payouts.amount_cents
}
