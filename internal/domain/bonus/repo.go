package bonus

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Claim records the bonus for (user, day). The primary key makes it
// first-writer-wins: true exactly once per user per local day.
func (r *Repo) Claim(ctx context.Context, tgID int64, day string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO daily_bonus_claims (telegram_id, day) VALUES ($1, $2)
		ON CONFLICT (telegram_id, day) DO NOTHING
	`, tgID, day)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repo) Claimed(ctx context.Context, tgID int64, day string) (bool, error) {
	var claimed bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_bonus_claims WHERE telegram_id = $1 AND day = $2)`,
		tgID, day,
	).Scan(&claimed)
	return claimed, err
}
