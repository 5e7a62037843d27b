package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/darslyhq/darsly/core"
	"github.com/darslyhq/darsly/core/waitlist"
)

type waitlistRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

type waitlistRepository struct {
	db *sqlx.DB
}

var _ waitlist.Repository = (*waitlistRepository)(nil) // interface compliance check

func NewWaitlistRepository(db *sqlx.DB) *waitlistRepository {
	return &waitlistRepository{db: db}
}

func (repo waitlistRepository) CreateEntry(ctx context.Context, entry waitlist.Entry, exec ...core.DBExecutor) (waitlist.Entry, error) {
	ex := getExec(repo.db, exec)
	if _, err := ex.ExecContext(ctx,
		`INSERT INTO waitlist (id, email) VALUES ($1, $2) ON CONFLICT (email) DO NOTHING`,
		uuid.New().String(), entry.Email,
	); err != nil {
		return waitlist.Entry{}, errors.Wrap(err, "inserting waitlist entry")
	}

	// read back so a repeat signup gets the original entry
	var row waitlistRow
	if err := sqlx.GetContext(ctx, ex, &row,
		`SELECT id, email, created_at FROM waitlist WHERE email = $1`, entry.Email,
	); err != nil {
		return waitlist.Entry{}, errors.Wrap(err, "getting waitlist entry")
	}
	return waitlist.Entry{ID: row.ID, Email: row.Email, CreatedAt: row.CreatedAt}, nil
}

func (repo waitlistRepository) QueryAllEntries(ctx context.Context, exec ...core.DBExecutor) ([]waitlist.Entry, error) {
	var rows []waitlistRow
	err := sqlx.SelectContext(ctx, getExec(repo.db, exec), &rows,
		`SELECT id, email, created_at FROM waitlist ORDER BY created_at ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying waitlist entries")
	}
	entries := make([]waitlist.Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, waitlist.Entry{ID: r.ID, Email: r.Email, CreatedAt: r.CreatedAt})
	}
	return entries, nil
}
