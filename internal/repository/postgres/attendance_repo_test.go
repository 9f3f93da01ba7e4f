package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"communityticketing/internal/domain"
)

func newTicket() *domain.Ticket {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	return &domain.Ticket{
		EventID:   "ev-1",
		TierID:    "t-1",
		UserID:    "u-1",
		Status:    domain.TicketActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAttendanceRepository_ReserveTicket(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		guard   domain.CapacityGuard
		mock    func(mock sqlmock.Sqlmock, tk *domain.Ticket)
		wantErr error
		wantID  string
	}{
		{
			name:  "success with tier and event recount",
			guard: domain.CapacityGuard{EventID: "ev-1", Capacity: 100},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "quantity_sold"}).AddRow(50, 10))
				mock.ExpectExec(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM tickets\s+WHERE event_id = \$1 AND status <> 'CANCELLED'`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
				mock.ExpectQuery(`INSERT INTO tickets`).
					WithArgs("ev-1", "t-1", "u-1", tk.Status, tk.CreatedAt, tk.UpdatedAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-1"))
				mock.ExpectExec(`UPDATE ticket_tiers SET quantity_sold = quantity_sold \+ 1 WHERE id = \$1`).
					WithArgs("t-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: "tk-1",
		},
		{
			name:  "unbounded tier with unlimited event skips recount",
			guard: domain.CapacityGuard{EventID: "ev-1", Capacity: 0},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "quantity_sold"}).AddRow(nil, 9000))
				mock.ExpectQuery(`INSERT INTO tickets`).
					WithArgs("ev-1", "t-1", "u-1", tk.Status, tk.CreatedAt, tk.UpdatedAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-2"))
				mock.ExpectExec(`UPDATE ticket_tiers SET quantity_sold = quantity_sold \+ 1 WHERE id = \$1`).
					WithArgs("t-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: "tk-2",
		},
		{
			name:  "invitation override skips event recount",
			guard: domain.CapacityGuard{EventID: "ev-1", Capacity: 10, Override: true},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "quantity_sold"}).AddRow(50, 10))
				mock.ExpectQuery(`INSERT INTO tickets`).
					WithArgs("ev-1", "t-1", "u-1", tk.Status, tk.CreatedAt, tk.UpdatedAt).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tk-3"))
				mock.ExpectExec(`UPDATE ticket_tiers SET quantity_sold = quantity_sold \+ 1 WHERE id = \$1`).
					WithArgs("t-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			wantID: "tk-3",
		},
		{
			name:  "sold out tier rolls back",
			guard: domain.CapacityGuard{EventID: "ev-1", Capacity: 100},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "quantity_sold"}).AddRow(50, 50))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrSoldOut,
		},
		{
			name:  "full event rolls back",
			guard: domain.CapacityGuard{EventID: "ev-1", Capacity: 100},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnRows(sqlmock.NewRows([]string{"total_quantity", "quantity_sold"}).AddRow(nil, 10))
				mock.ExpectExec(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM tickets\s+WHERE event_id = \$1 AND status <> 'CANCELLED'`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(100))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrEventFull,
		},
		{
			name:  "unknown tier",
			guard: domain.CapacityGuard{EventID: "ev-1"},
			mock: func(mock sqlmock.Sqlmock, tk *domain.Ticket) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT total_quantity, quantity_sold\s+FROM ticket_tiers\s+WHERE id = \$1\s+FOR UPDATE`).
					WithArgs("t-1").
					WillReturnError(sql.ErrNoRows)
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			ticket := newTicket()
			tt.mock(mock, ticket)

			repo := NewAttendanceRepository(db)
			err = repo.ReserveTicket(ctx, ticket, tt.guard)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.wantID, ticket.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceRepository_UpsertRSVP(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	newRSVP := func(answer domain.RSVPAnswer) *domain.RSVP {
		return &domain.RSVP{
			EventID:   "ev-1",
			UserID:    "u-1",
			Answer:    answer,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	tests := []struct {
		name    string
		answer  domain.RSVPAnswer
		guard   domain.CapacityGuard
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name:   "yes with capacity recount succeeds",
			answer: domain.RSVPYes,
			guard:  domain.CapacityGuard{EventID: "ev-1", Capacity: 10},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM rsvps\s+WHERE event_id = \$1 AND answer = 'YES' AND user_id <> \$2`).
					WithArgs("ev-1", "u-1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(9))
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WithArgs("ev-1", "u-1", domain.RSVPYes, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rsvp-1"))
				mock.ExpectCommit()
			},
		},
		{
			name:   "yes losing the recount rolls back",
			answer: domain.RSVPYes,
			guard:  domain.CapacityGuard{EventID: "ev-1", Capacity: 10},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT id FROM events WHERE id = \$1 FOR UPDATE`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT COUNT\(\*\)\s+FROM rsvps\s+WHERE event_id = \$1 AND answer = 'YES' AND user_id <> \$2`).
					WithArgs("ev-1", "u-1").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(10))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrEventFull,
		},
		{
			name:   "non-yes answer skips the lock",
			answer: domain.RSVPMaybe,
			guard:  domain.CapacityGuard{EventID: "ev-1", Capacity: 10},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WithArgs("ev-1", "u-1", domain.RSVPMaybe, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rsvp-2"))
				mock.ExpectCommit()
			},
		},
		{
			name:   "yes on an unbounded event skips the lock",
			answer: domain.RSVPYes,
			guard:  domain.CapacityGuard{EventID: "ev-1", Capacity: 0},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WithArgs("ev-1", "u-1", domain.RSVPYes, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rsvp-3"))
				mock.ExpectCommit()
			},
		},
		{
			name:   "yes with invitation override skips the lock",
			answer: domain.RSVPYes,
			guard:  domain.CapacityGuard{EventID: "ev-1", Capacity: 10, Override: true},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`INSERT INTO rsvps`).
					WithArgs("ev-1", "u-1", domain.RSVPYes, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("rsvp-4"))
				mock.ExpectCommit()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)

			repo := NewAttendanceRepository(db)
			rsvp := newRSVP(tt.answer)
			err = repo.UpsertRSVP(ctx, rsvp, tt.guard)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.NotEmpty(t, rsvp.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
