package content

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Add(ctx context.Context, channelID int64, messageID int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO content_items (channel_id, message_id) VALUES ($1, $2)
		ON CONFLICT (channel_id, message_id) DO NOTHING
	`, channelID, messageID)
	return err
}

// PickNext returns nil when nothing is available; that is a soft failure
// for the quota engine, not a denial.
func (r *Repo) PickNext(ctx context.Context) (*Item, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, channel_id, message_id, valid, created_at
		FROM content_items WHERE valid = TRUE
		ORDER BY id LIMIT 1
	`)
	var it Item
	if err := row.Scan(&it.ID, &it.ChannelID, &it.MessageID, &it.Valid, &it.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *Repo) Invalidate(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE content_items SET valid = FALSE WHERE id = $1`, id)
	return err
}

func (r *Repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM content_items WHERE valid = TRUE`).Scan(&n)
	return n, err
}
