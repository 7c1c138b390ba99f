package accountmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating accounts, communities and nonces tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS accounts (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				api_key_hash TEXT NOT NULL UNIQUE,
				researcher BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS communities (
				id BIGSERIAL PRIMARY KEY,
				account_id BIGINT NOT NULL REFERENCES accounts (id),
				name TEXT NOT NULL,
				description TEXT,
				require_signature BOOLEAN NOT NULL DEFAULT FALSE,
				weights JSONB,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (account_id, name)
			);

			CREATE TABLE IF NOT EXISTS nonces (
				nonce TEXT PRIMARY KEY,
				used BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				expires_at TIMESTAMPTZ NOT NULL
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create account tables: %w", err)
		}

		fmt.Println("Account tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping accounts, communities and nonces tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS nonces;
			DROP TABLE IF EXISTS communities;
			DROP TABLE IF EXISTS accounts;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop account tables: %w", err)
		}

		return nil
	})
}
