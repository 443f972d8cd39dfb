package users

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so grant SQL can
// run inside someone else's transaction (code redemption) while this repo
// stays the only writer of entitlement fields.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const userColumns = `id, telegram_id, username, daily_limit, used_today, premium, premium_until, joined_at, last_active`

func (r *Repo) Get(ctx context.Context, tgID int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE telegram_id = $1
	`, tgID)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Username, &u.DailyLimit, &u.UsedToday,
		&u.Premium, &u.PremiumUntil, &u.JoinedAt, &u.LastActive); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// EnsureExists lazily creates the entitlement record with the default limit
// and touches last_active either way.
func (r *Repo) EnsureExists(ctx context.Context, tgID int64, username string, defaultLimit int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (telegram_id, username, daily_limit)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE SET
		  username    = EXCLUDED.username,
		  last_active = now()
	`, tgID, username, defaultLimit)
	return err
}

// TryConsume is the quota check-and-increment in one statement: the limit is
// re-verified by the WHERE clause, so two concurrent calls can never both
// take the last unit.
func (r *Repo) TryConsume(ctx context.Context, tgID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET used_today = used_today + 1, last_active = now()
		WHERE telegram_id = $1 AND used_today < daily_limit
	`, tgID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// RefundConsume compensates a TryConsume whose dispatch failed afterwards.
func (r *Repo) RefundConsume(ctx context.Context, tgID int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET used_today = used_today - 1
		WHERE telegram_id = $1 AND used_today > 0
	`, tgID)
	return err
}

func (r *Repo) ResetUsage(ctx context.Context, tgID int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET used_today = 0 WHERE telegram_id = $1`, tgID)
	return err
}

func (r *Repo) ResetAllUsage(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET used_today = 0 WHERE used_today <> 0`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const grantSQL = `
	UPDATE users
	SET premium = TRUE, premium_until = $2, daily_limit = $3, used_today = 0
	WHERE telegram_id = $1`

func (r *Repo) Grant(ctx context.Context, tgID int64, limit int, until time.Time) error {
	_, err := r.pool.Exec(ctx, grantSQL, tgID, until, limit)
	return err
}

// GrantIn runs the grant through q, typically a transaction owned by the
// redeem-code repo.
func (r *Repo) GrantIn(ctx context.Context, q Querier, tgID int64, limit int, until time.Time) error {
	_, err := q.Exec(ctx, grantSQL, tgID, until, limit)
	return err
}

func (r *Repo) SetDailyLimit(ctx context.Context, tgID int64, limit int) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET daily_limit = $2 WHERE telegram_id = $1`, tgID, limit)
	return err
}

func (r *Repo) RevokePremium(ctx context.Context, tgID int64, defaultLimit int) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users SET premium = FALSE, daily_limit = $2
		WHERE telegram_id = $1
	`, tgID, defaultLimit)
	return err
}

// ExpirePremium downgrades everyone whose paid window has passed.
func (r *Repo) ExpirePremium(ctx context.Context, now time.Time, defaultLimit int) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET premium = FALSE, daily_limit = $2
		WHERE premium = TRUE AND premium_until IS NOT NULL AND premium_until < $1
	`, now, defaultLimit)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) ListPremium(ctx context.Context) ([]User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE premium = TRUE ORDER BY id`)
}

func (r *Repo) ListAll(ctx context.Context) ([]User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (r *Repo) list(ctx context.Context, q string) ([]User, error) {
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Username, &u.DailyLimit, &u.UsedToday,
			&u.Premium, &u.PremiumUntil, &u.JoinedAt, &u.LastActive); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
