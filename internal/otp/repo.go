package otp

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

var _ Store = (*Repo)(nil)

func (r *Repo) Create(ctx context.Context, req *Request) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO otp_requests (id, identifier, code, purpose, created_at, expires_at, used)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		req.ID, req.Identifier, req.Code, req.Purpose, req.CreatedAt, req.ExpiresAt, req.Used)
	return err
}

// Consume is a single statement, so a code can never be accepted twice: the
// row lock in the subquery serializes concurrent verifications and the used
// flag filters out the loser's candidate.
func (r *Repo) Consume(ctx context.Context, identifier, code string, purpose Purpose) (*Request, error) {
	var req Request
	err := r.DB.QueryRow(ctx, `
		UPDATE otp_requests SET used = TRUE
		WHERE id = (
			SELECT id FROM otp_requests
			WHERE identifier=$1 AND code=$2 AND purpose=$3 AND used=FALSE AND expires_at > now()
			ORDER BY created_at DESC
			LIMIT 1
			FOR UPDATE
		)
		RETURNING id, identifier, code, purpose, created_at, expires_at, used`,
		identifier, code, purpose).Scan(
		&req.ID, &req.Identifier, &req.Code, &req.Purpose,
		&req.CreatedAt, &req.ExpiresAt, &req.Used)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInvalidOrExpired
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}
