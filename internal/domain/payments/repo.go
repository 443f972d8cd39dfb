package payments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoPending = errors.New("payments: no pending request")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Create(ctx context.Context, tgID int64, username, photoFileID string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payment_requests (telegram_id, username, photo_file_id, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id
	`, tgID, username, photoFileID).Scan(&id)
	return id, err
}

// ResolveLatestPending claims the newest pending request for the user.
// The status filter in the subquery makes a second resolve of the same
// request come back ErrNoPending instead of flipping it twice.
func (r *Repo) ResolveLatestPending(ctx context.Context, tgID int64, status Status) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		UPDATE payment_requests
		SET status = $2, resolved_at = now()
		WHERE id = (
			SELECT id FROM payment_requests
			WHERE telegram_id = $1 AND status = 'pending'
			ORDER BY submitted_at DESC, id DESC
			LIMIT 1
		) AND status = 'pending'
		RETURNING id
	`, tgID, status).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoPending
		}
		return 0, err
	}
	return id, nil
}
