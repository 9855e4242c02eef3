package repository

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schema matching tables. The partial unique index is the backstop for
// the match-creation race: at most one active row per pair can exist
// no matter how the transactions interleave.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS swipes (
	id BIGSERIAL PRIMARY KEY,
	initiator_id BIGINT NOT NULL,
	target_id BIGINT NOT NULL,
	is_like BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (initiator_id, target_id)
);

CREATE TABLE IF NOT EXISTS matches (
	id BIGSERIAL PRIMARY KEY,
	user_a_id BIGINT NOT NULL,
	user_b_id BIGINT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	matched_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_matches_active_pair
	ON matches (user_a_id, user_b_id) WHERE status = 'active';
`

// EnsureSchema create the matching tables when they do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
