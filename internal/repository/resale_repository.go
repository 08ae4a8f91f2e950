package repository

import (
	"context"

	"github.com/cywf/AudiFi-sub000/internal/model"
)

// CreateResale persists a resale and its Mover Advantage payout lines.
// Runs inside the calculator's transaction so the resale and its payouts
// commit together.
func (s *Store) CreateResale(ctx context.Context, resale *model.ResaleTransaction) error {
	const q = `INSERT INTO resale_transactions
	           (id, master_ipo_id, seller_wallet, buyer_wallet, sale_price_cents,
	            seller_proceeds_cents, currency, recorded_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q(ctx).ExecContext(ctx, q,
		resale.ID, resale.MasterIPOID, resale.SellerWallet, resale.BuyerWallet,
		resale.SalePriceCents, resale.SellerProceedsCents, resale.Currency, resale.RecordedAt)
	if err != nil {
		return err
	}
	if len(resale.Payouts) == 0 {
		return nil
	}

	pq := `INSERT INTO mover_payouts (id, resale_id, wallet, rank_position, amount_cents) VALUES `
	args := make([]interface{}, 0, len(resale.Payouts)*5)
	for i, p := range resale.Payouts {
		if i > 0 {
			pq += ","
		}
		pq += "(?, ?, ?, ?, ?)"
		args = append(args, p.ID, p.ResaleID, p.Wallet, p.Rank, p.AmountCents)
	}
	_, err = s.q(ctx).ExecContext(ctx, pq, args...)
	return err
}

// ListResales returns the resales recorded against one offering, newest
// first, payout lines included.
func (s *Store) ListResales(ctx context.Context, ipoID string) ([]model.ResaleTransaction, error) {
	const q = `SELECT id, master_ipo_id, seller_wallet, buyer_wallet, sale_price_cents,
	                  seller_proceeds_cents, currency, recorded_at
	           FROM resale_transactions WHERE master_ipo_id = ? ORDER BY recorded_at DESC`
	rows, err := s.q(ctx).QueryContext(ctx, q, ipoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ResaleTransaction, 0)
	index := make(map[string]int)
	for rows.Next() {
		var r model.ResaleTransaction
		if err := rows.Scan(&r.ID, &r.MasterIPOID, &r.SellerWallet, &r.BuyerWallet,
			&r.SalePriceCents, &r.SellerProceedsCents, &r.Currency, &r.RecordedAt); err != nil {
			return nil, err
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	const pq = `SELECT p.id, p.resale_id, p.wallet, p.rank_position, p.amount_cents
	            FROM mover_payouts p
	            JOIN resale_transactions r ON r.id = p.resale_id
	            WHERE r.master_ipo_id = ?
	            ORDER BY p.resale_id, p.rank_position`
	prows, err := s.q(ctx).QueryContext(ctx, pq, ipoID)
	if err != nil {
		return nil, err
	}
	defer prows.Close()
	for prows.Next() {
		var p model.MoverPayout
		if err := prows.Scan(&p.ID, &p.ResaleID, &p.Wallet, &p.Rank, &p.AmountCents); err != nil {
			return nil, err
		}
		if i, ok := index[p.ResaleID]; ok {
			out[i].Payouts = append(out[i].Payouts, p)
		}
	}
	return out, prows.Err()
}
