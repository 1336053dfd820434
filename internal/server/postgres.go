package server

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Event is one accepted attendance submission in the permanent log.
type Event struct {
	ID         string
	Email      string
	Action     string
	Location   string
	OccurredAt time.Time
}

// EventLog persists accepted submissions. Optional; a nil log disables the
// trail.
type EventLog interface {
	Insert(ctx context.Context, evt Event) error
	List(ctx context.Context, email string, limit int) ([]Event, error)
}

// PostgresLog persists events in Postgres via the pgx stdlib driver.
type PostgresLog struct {
	db *sql.DB
}

// NewPostgresLog opens a Postgres connection with sane pool defaults.
func NewPostgresLog(connString string) (*PostgresLog, error) {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	return &PostgresLog{db: db}, db.PingContext(context.Background())
}

// Close closes the underlying connection.
func (p *PostgresLog) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

// Healthy verifies database connectivity.
func (p *PostgresLog) Healthy(ctx context.Context) bool {
	if p == nil || p.db == nil {
		return false
	}
	return p.db.PingContext(ctx) == nil
}

// Insert writes a new event.
func (p *PostgresLog) Insert(ctx context.Context, evt Event) error {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO attendance_events (id, email, action, location, occurred_at)
		VALUES ($1,$2,$3,$4,$5)
	`, evt.ID, evt.Email, evt.Action, evt.Location, evt.OccurredAt)
	return err
}

// List returns the most recent events for a user.
func (p *PostgresLog) List(ctx context.Context, email string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, email, action, location, occurred_at
		FROM attendance_events
		WHERE email = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Event
	for rows.Next() {
		var evt Event
		if err := rows.Scan(&evt.ID, &evt.Email, &evt.Action, &evt.Location, &evt.OccurredAt); err != nil {
			return nil, err
		}
		res = append(res, evt)
	}
	return res, rows.Err()
}
