package bans

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Ban(ctx context.Context, tgID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO banned_users (telegram_id) VALUES ($1)
		ON CONFLICT (telegram_id) DO NOTHING
	`, tgID)
	return err
}

func (r *Repo) Unban(ctx context.Context, tgID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM banned_users WHERE telegram_id = $1`, tgID)
	return err
}

func (r *Repo) IsBanned(ctx context.Context, tgID int64) (bool, error) {
	var banned bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM banned_users WHERE telegram_id = $1)`, tgID,
	).Scan(&banned)
	return banned, err
}
