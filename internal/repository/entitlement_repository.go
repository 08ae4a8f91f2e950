package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

const entitlementColumns = `id, revenue_event_id, master_ipo_id, holder_position_id,
	amount_cents, currency, status, created_at, claimed_at`

// CreateEntitlements bulk-inserts one distribution batch in a single
// statement. The caller's transaction makes the batch all-or-nothing
// together with the event's status transition.
func (s *Store) CreateEntitlements(ctx context.Context, batch []model.DividendEntitlement) error {
	if len(batch) == 0 {
		return nil
	}
	q := `INSERT INTO dividend_entitlements (` + entitlementColumns + `) VALUES `
	args := make([]interface{}, 0, len(batch)*9)
	for i, ent := range batch {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?, ?, ?, ?, ?, ?)"
		args = append(args, ent.ID, ent.RevenueEventID, ent.MasterIPOID, ent.HolderPositionID,
			ent.AmountCents, ent.Currency, ent.Status, ent.CreatedAt, ent.ClaimedAt)
	}
	_, err := s.q(ctx).ExecContext(ctx, q, args...)
	return err
}

// Entitlement loads one entitlement by id.
func (s *Store) Entitlement(ctx context.Context, id string) (*model.DividendEntitlement, error) {
	const q = `SELECT ` + entitlementColumns + ` FROM dividend_entitlements WHERE id = ?`
	var ent model.DividendEntitlement
	var claimed sql.NullTime
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&ent.ID, &ent.RevenueEventID, &ent.MasterIPOID, &ent.HolderPositionID,
		&ent.AmountCents, &ent.Currency, &ent.Status, &ent.CreatedAt, &claimed)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if claimed.Valid {
		t := claimed.Time.UTC()
		ent.ClaimedAt = &t
	}
	return &ent, nil
}

// MarkEntitlementClaimed performs the CLAIMABLE -> CLAIMED transition as a
// conditional write; exactly one of any number of concurrent claims sees a
// row affected.
func (s *Store) MarkEntitlementClaimed(ctx context.Context, id string, at time.Time) (bool, error) {
	const q = `UPDATE dividend_entitlements SET status = ?, claimed_at = ?
	           WHERE id = ? AND status = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, model.EntitlementStatusClaimed, at, id, model.EntitlementStatusClaimable)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		var exists int
		err := s.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM dividend_entitlements WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, ledger.ErrNotFound
		}
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// OutstandingForWallet lists the claimable entitlements whose holder
// position currently belongs to wallet. Ownership rides with the position,
// so a transferred position moves its outstanding dividends with it.
func (s *Store) OutstandingForWallet(ctx context.Context, wallet string) ([]model.DividendEntitlement, error) {
	const q = `SELECT e.id, e.revenue_event_id, e.master_ipo_id, e.holder_position_id,
	                  e.amount_cents, e.currency, e.status, e.created_at, e.claimed_at
	           FROM dividend_entitlements e
	           JOIN holder_positions p ON p.id = e.holder_position_id
	           WHERE p.wallet = ? AND e.status = ?
	           ORDER BY e.created_at ASC, e.id ASC`
	rows, err := s.q(ctx).QueryContext(ctx, q, wallet, model.EntitlementStatusClaimable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.DividendEntitlement, 0)
	for rows.Next() {
		var ent model.DividendEntitlement
		var claimed sql.NullTime
		if err := rows.Scan(
			&ent.ID, &ent.RevenueEventID, &ent.MasterIPOID, &ent.HolderPositionID,
			&ent.AmountCents, &ent.Currency, &ent.Status, &ent.CreatedAt, &claimed); err != nil {
			return nil, err
		}
		if claimed.Valid {
			t := claimed.Time.UTC()
			ent.ClaimedAt = &t
		}
		out = append(out, ent)
	}
	return out, rows.Err()
}
