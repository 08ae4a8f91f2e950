package repository

import (
	"context"
	"database/sql"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

const holderColumns = `id, master_ipo_id, wallet, quantity_held, mint_order_rank, created_at, updated_at`

// HolderPosition returns one wallet's position within one offering.
func (s *Store) HolderPosition(ctx context.Context, ipoID, wallet string) (*model.HolderPosition, error) {
	const q = `SELECT ` + holderColumns + ` FROM holder_positions
	           WHERE master_ipo_id = ? AND wallet = ?`
	return scanHolder(s.q(ctx).QueryRowContext(ctx, q, ipoID, wallet))
}

// HolderPositionByID returns a position by its identifier.
func (s *Store) HolderPositionByID(ctx context.Context, id string) (*model.HolderPosition, error) {
	const q = `SELECT ` + holderColumns + ` FROM holder_positions WHERE id = ?`
	return scanHolder(s.q(ctx).QueryRowContext(ctx, q, id))
}

func scanHolder(row *sql.Row) (*model.HolderPosition, error) {
	var p model.HolderPosition
	err := row.Scan(&p.ID, &p.MasterIPOID, &p.Wallet, &p.QuantityHeld, &p.MintOrderRank, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// AllHolders returns every position of the offering ordered by mint rank
// ascending, zero-quantity rows included.
func (s *Store) AllHolders(ctx context.Context, ipoID string) ([]model.HolderPosition, error) {
	const q = `SELECT ` + holderColumns + ` FROM holder_positions
	           WHERE master_ipo_id = ? ORDER BY mint_order_rank ASC`
	rows, err := s.q(ctx).QueryContext(ctx, q, ipoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.HolderPosition, 0)
	for rows.Next() {
		var p model.HolderPosition
		if err := rows.Scan(&p.ID, &p.MasterIPOID, &p.Wallet, &p.QuantityHeld, &p.MintOrderRank, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// HolderCount counts the distinct wallets that ever minted or received
// units of the offering. Drives mint-order rank assignment.
func (s *Store) HolderCount(ctx context.Context, ipoID string) (int, error) {
	const q = `SELECT COUNT(*) FROM holder_positions WHERE master_ipo_id = ?`
	var n int
	if err := s.q(ctx).QueryRowContext(ctx, q, ipoID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CreateHolderPosition inserts a new position row.
func (s *Store) CreateHolderPosition(ctx context.Context, pos *model.HolderPosition) error {
	const q = `INSERT INTO holder_positions (` + holderColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q(ctx).ExecContext(ctx, q,
		pos.ID, pos.MasterIPOID, pos.Wallet, pos.QuantityHeld, pos.MintOrderRank, pos.CreatedAt, pos.UpdatedAt)
	return err
}

// SetHolderQuantity writes a position's current holdings. Rows are never
// deleted; a full transfer out leaves the row at zero.
func (s *Store) SetHolderQuantity(ctx context.Context, id string, qty int64) error {
	const q = `UPDATE holder_positions SET quantity_held = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, qty, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}
