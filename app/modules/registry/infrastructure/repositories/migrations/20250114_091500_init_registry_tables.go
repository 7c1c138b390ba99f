package registrymigrations

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
		fmt.Println("Creating passports, stamps and scores tables...")

		// The unique constraints on (address, community_id) and on
		// passport_id are what the upsert paths ride on; do not drop them
		// without rewriting the submission flow.
		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS passports (
				id BIGSERIAL PRIMARY KEY,
				address TEXT NOT NULL,
				community_id BIGINT NOT NULL REFERENCES communities (id),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (address, community_id)
			);

			CREATE TABLE IF NOT EXISTS stamps (
				id BIGSERIAL PRIMARY KEY,
				passport_id BIGINT NOT NULL REFERENCES passports (id),
				provider TEXT NOT NULL,
				hash TEXT,
				credential JSONB NOT NULL
			);
			CREATE INDEX IF NOT EXISTS stamps_passport_id_idx ON stamps (passport_id);

			CREATE TABLE IF NOT EXISTS scores (
				id BIGSERIAL PRIMARY KEY,
				passport_id BIGINT NOT NULL UNIQUE REFERENCES passports (id),
				score NUMERIC,
				status TEXT NOT NULL,
				evidence JSONB,
				error TEXT,
				last_score_timestamp TIMESTAMPTZ
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create registry tables: %w", err)
		}

		fmt.Println("Registry tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping passports, stamps and scores tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS scores;
			DROP TABLE IF EXISTS stamps;
			DROP TABLE IF EXISTS passports;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop registry tables: %w", err)
		}

		return nil
	})
}
