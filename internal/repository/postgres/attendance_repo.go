package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"communityticketing/internal/domain"
)

type attendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository returns the transactional write path for tickets
// and RSVPs. Both operations re-assert capacity under row locks inside the
// same transaction as the insert, so two concurrent attempts for the last
// slot serialize at commit time and the loser fails deterministically.
func NewAttendanceRepository(db *sql.DB) domain.AttendanceRepository {
	return &attendanceRepository{DB: db}
}

func (r *attendanceRepository) ReserveTicket(ctx context.Context, ticket *domain.Ticket, guard domain.CapacityGuard) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the tier row. This is the serialization point for concurrent
	// purchases of the same tier; unrelated tiers and events never contend.
	var totalQuantity sql.NullInt64
	var quantitySold int
	err = tx.QueryRowContext(ctx, `
		SELECT total_quantity, quantity_sold
		FROM ticket_tiers
		WHERE id = $1
		FOR UPDATE
	`, ticket.TierID).Scan(&totalQuantity, &quantitySold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("lock tier: %w", err)
	}
	if totalQuantity.Valid && int64(quantitySold) >= totalQuantity.Int64 {
		return domain.ErrSoldOut
	}

	if guard.Capacity > 0 && !guard.Override {
		// The event row is the lock surrogate for unlimited-quantity tiers:
		// without it, two buyers on different tiers could both pass the
		// event-level recount.
		if _, err := tx.ExecContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, guard.EventID); err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		var held int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM tickets
			WHERE event_id = $1 AND status <> 'CANCELLED'
		`, guard.EventID).Scan(&held)
		if err != nil {
			return fmt.Errorf("count tickets: %w", err)
		}
		if held >= guard.Capacity {
			return domain.ErrEventFull
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tickets (event_id, tier_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, ticket.EventID, ticket.TierID, ticket.UserID, ticket.Status, ticket.CreatedAt, ticket.UpdatedAt).
		Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE ticket_tiers SET quantity_sold = quantity_sold + 1 WHERE id = $1
	`, ticket.TierID); err != nil {
		return fmt.Errorf("increment quantity_sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *attendanceRepository) UpsertRSVP(ctx context.Context, rsvp *domain.RSVP, guard domain.CapacityGuard) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if rsvp.Answer == domain.RSVPYes && guard.Capacity > 0 && !guard.Override {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, guard.EventID); err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		// The user's own prior YES must not count against them on an
		// answer change.
		var yes int
		err = tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM rsvps
			WHERE event_id = $1 AND answer = 'YES' AND user_id <> $2
		`, guard.EventID, rsvp.UserID).Scan(&yes)
		if err != nil {
			return fmt.Errorf("count rsvps: %w", err)
		}
		if yes >= guard.Capacity {
			return domain.ErrEventFull
		}
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO rsvps (event_id, user_id, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET answer = EXCLUDED.answer, updated_at = EXCLUDED.updated_at
		RETURNING id
	`, rsvp.EventID, rsvp.UserID, rsvp.Answer, rsvp.CreatedAt, rsvp.UpdatedAt).
		Scan(&rsvp.ID)
	if err != nil {
		return fmt.Errorf("upsert rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
