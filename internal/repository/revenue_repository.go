package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/model"
)

const revenueColumns = `id, master_ipo_id, amount_cents, currency, source_type, status, recorded_at, processed_at`

// CreateRevenueEvent inserts a pending revenue deposit.
func (s *Store) CreateRevenueEvent(ctx context.Context, ev *model.RevenueEvent) error {
	const q = `INSERT INTO revenue_events (` + revenueColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.q(ctx).ExecContext(ctx, q,
		ev.ID, ev.MasterIPOID, ev.AmountCents, ev.Currency, ev.SourceType, ev.Status, ev.RecordedAt, ev.ProcessedAt)
	return err
}

// RevenueEvent loads one event by id.
func (s *Store) RevenueEvent(ctx context.Context, id string) (*model.RevenueEvent, error) {
	const q = `SELECT ` + revenueColumns + ` FROM revenue_events WHERE id = ?`
	var ev model.RevenueEvent
	var processed sql.NullTime
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.MasterIPOID, &ev.AmountCents, &ev.Currency, &ev.SourceType, &ev.Status, &ev.RecordedAt, &processed)
	if err == sql.ErrNoRows {
		return nil, ledger.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if processed.Valid {
		t := processed.Time.UTC()
		ev.ProcessedAt = &t
	}
	return &ev, nil
}

// ListRevenueEvents returns the events recorded against one offering,
// oldest first.
func (s *Store) ListRevenueEvents(ctx context.Context, ipoID string) ([]model.RevenueEvent, error) {
	const q = `SELECT ` + revenueColumns + ` FROM revenue_events
	           WHERE master_ipo_id = ? ORDER BY recorded_at ASC`
	rows, err := s.q(ctx).QueryContext(ctx, q, ipoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RevenueEvent, 0)
	for rows.Next() {
		var ev model.RevenueEvent
		var processed sql.NullTime
		if err := rows.Scan(
			&ev.ID, &ev.MasterIPOID, &ev.AmountCents, &ev.Currency, &ev.SourceType, &ev.Status, &ev.RecordedAt, &processed); err != nil {
			return nil, err
		}
		if processed.Valid {
			t := processed.Time.UTC()
			ev.ProcessedAt = &t
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// MarkRevenueProcessed performs the PENDING -> PROCESSED transition as a
// conditional write. Zero rows affected tells the caller it lost the race
// (or the event was already processed); a missing row is ErrNotFound.
func (s *Store) MarkRevenueProcessed(ctx context.Context, id string, at time.Time) (bool, error) {
	const q = `UPDATE revenue_events SET status = ?, processed_at = ?
	           WHERE id = ? AND status = ?`
	res, err := s.q(ctx).ExecContext(ctx, q, model.RevenueStatusProcessed, at, id, model.RevenueStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		var exists int
		err := s.q(ctx).QueryRowContext(ctx, `SELECT 1 FROM revenue_events WHERE id = ?`, id).Scan(&exists)
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
