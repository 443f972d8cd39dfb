package codes

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Spok95/videolimit-bot/internal/domain/users"
)

var ErrInvalidOrUsed = errors.New("codes: invalid or already used")

type Repo struct {
	pool  *pgxpool.Pool
	users *users.Repo
}

func NewRepo(pool *pgxpool.Pool, usersRepo *users.Repo) *Repo {
	return &Repo{pool: pool, users: usersRepo}
}

func (r *Repo) Create(ctx context.Context, code string, videos, days int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO redeem_codes (code, videos, days) VALUES ($1, $2, $3)
	`, code, videos, days)
	return err
}

// Redeem flips used=false->true and applies the grant in one transaction.
// The conditional UPDATE is the arbiter: under concurrent redemption of the
// same code exactly one caller gets the row back, everyone else sees
// ErrInvalidOrUsed.
func (r *Repo) Redeem(ctx context.Context, code string, tgID int64, now time.Time) (*Grant, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var videos, days int
	err = tx.QueryRow(ctx, `
		UPDATE redeem_codes SET used = TRUE
		WHERE code = $1 AND used = FALSE
		RETURNING videos, days
	`, code).Scan(&videos, &days)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidOrUsed
		}
		return nil, err
	}

	until := now.AddDate(0, 0, days)
	if err := r.users.GrantIn(ctx, tx, tgID, videos, until); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &Grant{DailyLimit: videos, Until: until}, nil
}
