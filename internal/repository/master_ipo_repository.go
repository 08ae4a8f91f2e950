package repository

import (
	"context"
	"database/sql"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

const masterIPOColumns = `id, artist_wallet, title, total_supply, minted_supply, price_cents,
	currency, holder_revenue_share_percent, artist_retained_percent, status,
	tier1_percent, tier2_percent, tier3_percent, tier4_plus_percent, created_at, updated_at`

// CreateMasterIPO inserts the offering and its collaborator shares. Callers
// wrap this in WithTx when collaborators are present so the rows land
// together.
func (s *Store) CreateMasterIPO(ctx context.Context, ipo *model.MasterIPO) error {
	const q = `INSERT INTO master_ipos (` + masterIPOColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q(ctx).ExecContext(ctx, q,
		ipo.ID, ipo.ArtistWallet, ipo.Title, ipo.TotalSupply, ipo.MintedSupply, ipo.PriceCents,
		ipo.Currency, ipo.HolderRevenueSharePercent, ipo.ArtistRetainedPercent, ipo.Status,
		ipo.Tier1Percent, ipo.Tier2Percent, ipo.Tier3Percent, ipo.Tier4PlusPercent,
		ipo.CreatedAt, ipo.UpdatedAt,
	)
	if err != nil {
		return err
	}
	for _, c := range ipo.Collaborators {
		const cq = `INSERT INTO collaborator_shares (id, master_ipo_id, wallet, percent, position)
		            VALUES (?, ?, ?, ?, ?)`
		if _, err := s.q(ctx).ExecContext(ctx, cq, c.ID, c.MasterIPOID, c.Wallet, c.Percent, c.Position); err != nil {
			return err
		}
	}
	return nil
}

// MasterIPO loads one offering with its collaborator shares.
func (s *Store) MasterIPO(ctx context.Context, id string) (*model.MasterIPO, error) {
	const q = `SELECT ` + masterIPOColumns + ` FROM master_ipos WHERE id = ?`
	return s.scanMasterIPO(ctx, s.q(ctx).QueryRowContext(ctx, q, id))
}

// MasterIPOForUpdate loads one offering under a row lock so concurrent
// mints serialize on the supply counter. Must run inside WithTx.
func (s *Store) MasterIPOForUpdate(ctx context.Context, id string) (*model.MasterIPO, error) {
	const q = `SELECT ` + masterIPOColumns + ` FROM master_ipos WHERE id = ? FOR UPDATE`
	return s.scanMasterIPO(ctx, s.q(ctx).QueryRowContext(ctx, q, id))
}

func (s *Store) scanMasterIPO(ctx context.Context, row *sql.Row) (*model.MasterIPO, error) {
	var ipo model.MasterIPO
	err := row.Scan(
		&ipo.ID, &ipo.ArtistWallet, &ipo.Title, &ipo.TotalSupply, &ipo.MintedSupply, &ipo.PriceCents,
		&ipo.Currency, &ipo.HolderRevenueSharePercent, &ipo.ArtistRetainedPercent, &ipo.Status,
		&ipo.Tier1Percent, &ipo.Tier2Percent, &ipo.Tier3Percent, &ipo.Tier4PlusPercent,
		&ipo.CreatedAt, &ipo.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrMasterIPONotFound
	}
	if err != nil {
		return nil, err
	}

	const cq = `SELECT id, master_ipo_id, wallet, percent, position
	            FROM collaborator_shares WHERE master_ipo_id = ? ORDER BY position`
	rows, err := s.q(ctx).QueryContext(ctx, cq, ipo.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.CollaboratorShare
		if err := rows.Scan(&c.ID, &c.MasterIPOID, &c.Wallet, &c.Percent, &c.Position); err != nil {
			return nil, err
		}
		ipo.Collaborators = append(ipo.Collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &ipo, nil
}

// ListMasterIPOs returns offerings newest first, optionally filtered by
// status. Collaborator shares are not loaded for listings.
func (s *Store) ListMasterIPOs(ctx context.Context, status string) ([]model.MasterIPO, error) {
	q := `SELECT ` + masterIPOColumns + ` FROM master_ipos`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.q(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MasterIPO, 0)
	for rows.Next() {
		var ipo model.MasterIPO
		if err := rows.Scan(
			&ipo.ID, &ipo.ArtistWallet, &ipo.Title, &ipo.TotalSupply, &ipo.MintedSupply, &ipo.PriceCents,
			&ipo.Currency, &ipo.HolderRevenueSharePercent, &ipo.ArtistRetainedPercent, &ipo.Status,
			&ipo.Tier1Percent, &ipo.Tier2Percent, &ipo.Tier3Percent, &ipo.Tier4PlusPercent,
			&ipo.CreatedAt, &ipo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ipo)
	}
	return out, rows.Err()
}

// SetSupplyAndStatus writes the supply counter and status together. Only
// called under the row lock taken by MasterIPOForUpdate.
func (s *Store) SetSupplyAndStatus(ctx context.Context, id string, minted int64, status string) error {
	const q = `UPDATE master_ipos SET minted_supply = ?, status = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, minted, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrMasterIPONotFound
	}
	return nil
}

// TransitionIPOStatus flips status from -> to as a conditional write and
// reports whether this caller performed the transition. Zero rows affected
// means another caller (or an earlier call) got there first.
func (s *Store) TransitionIPOStatus(ctx context.Context, id, from, to string) (bool, error) {
	const q = `UPDATE master_ipos SET status = ?, updated_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		// distinguish a missing row from a lost race
		var exists int
		err := s.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM master_ipos WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, ledger.ErrMasterIPONotFound
		}
		if err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}
