package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCapturedPosts, downCapturedPosts)
}

func upCapturedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE captured_posts (
		id                    TEXT PRIMARY KEY,
		source_id             TEXT NOT NULL,
		canonical_url         TEXT NOT NULL UNIQUE,
		author                TEXT NOT NULL DEFAULT '',
		author_handle         TEXT NOT NULL DEFAULT '',
		author_avatar_url     TEXT NOT NULL DEFAULT '',
		author_profile_url    TEXT NOT NULL DEFAULT '',
		text_content          TEXT NOT NULL,
		media_urls            TEXT[] NOT NULL DEFAULT '{}',
		likes                 INTEGER NOT NULL DEFAULT 0,
		reshares              INTEGER NOT NULL DEFAULT 0,
		replies               INTEGER NOT NULL DEFAULT 0,
		platform              VARCHAR(32) NOT NULL,
		captured_at           BIGINT NOT NULL,
		author_followup_text  TEXT NOT NULL DEFAULT '',
		other_comments_digest TEXT NOT NULL DEFAULT '',
		enrichment            JSONB,
		CONSTRAINT captured_posts_has_content CHECK (text_content <> '' OR cardinality(media_urls) > 0)
	);
	CREATE INDEX captured_posts_captured_at_idx ON captured_posts (captured_at DESC);
	`)
	return err
}

func downCapturedPosts(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE captured_posts;`)
	return err
}
