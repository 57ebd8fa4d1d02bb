package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/squirrel-collector/internal/domain"
	"github.com/orgball2608/squirrel-collector/internal/repositories"
	"github.com/orgball2608/squirrel-collector/pkg/logger"
)

const table = "captured_posts"

var columns = []string{
	"id", "source_id", "canonical_url", "author", "author_handle", "author_avatar_url",
	"author_profile_url", "text_content", "media_urls", "likes", "reshares", "replies",
	"platform", "captured_at", "author_followup_text", "other_comments_digest", "enrichment",
}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func encodeEnrichment(e *domain.EnrichmentResult) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func saveQuery(post domain.CapturedPost) (string, []any, error) {
	enrichment, err := encodeEnrichment(post.Enrichment)
	if err != nil {
		return "", nil, fmt.Errorf("encode enrichment: %w", err)
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}

	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(
			post.ID, post.SourceID, post.CanonicalURL, post.Author, post.AuthorHandle, post.AuthorAvatarURL,
			post.AuthorProfileURL, post.TextContent, post.MediaURLs, post.Engagement.Likes,
			post.Engagement.Reshares, post.Engagement.Replies, string(post.Platform), post.CapturedAtEpochMs,
			post.AuthorFollowupText, post.OtherCommentsDigest, enrichment,
		).
		Suffix(`ON CONFLICT (canonical_url) DO UPDATE SET
			author = EXCLUDED.author,
			author_handle = EXCLUDED.author_handle,
			author_avatar_url = EXCLUDED.author_avatar_url,
			author_profile_url = EXCLUDED.author_profile_url,
			text_content = EXCLUDED.text_content,
			media_urls = EXCLUDED.media_urls,
			likes = EXCLUDED.likes,
			reshares = EXCLUDED.reshares,
			replies = EXCLUDED.replies,
			captured_at = EXCLUDED.captured_at,
			author_followup_text = EXCLUDED.author_followup_text,
			other_comments_digest = EXCLUDED.other_comments_digest,
			enrichment = COALESCE(` + table + `.enrichment, EXCLUDED.enrichment)
		RETURNING id, source_id, enrichment`).
		ToSql()
}

func (p *Pgx) Save(ctx context.Context, post domain.CapturedPost) (domain.CapturedPost, error) {
	query, args, err := saveQuery(post)
	if err != nil {
		return domain.CapturedPost{}, repositories.ErrBadQuery
	}

	var enrichment []byte
	if err := p.pg.QueryRow(ctx, query, args...).Scan(&post.ID, &post.SourceID, &enrichment); err != nil {
		return domain.CapturedPost{}, fmt.Errorf("failed to save post: %w", err)
	}
	if post.Enrichment, err = decodeEnrichment(enrichment); err != nil {
		return domain.CapturedPost{}, err
	}
	return post, nil
}

func decodeEnrichment(raw []byte) (*domain.EnrichmentResult, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var e domain.EnrichmentResult
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("decode enrichment: %w", err)
	}
	return &e, nil
}

func scanPost(row pgx.Row) (domain.CapturedPost, error) {
	var (
		post       domain.CapturedPost
		platform   string
		enrichment []byte
	)
	err := row.Scan(
		&post.ID, &post.SourceID, &post.CanonicalURL, &post.Author, &post.AuthorHandle, &post.AuthorAvatarURL,
		&post.AuthorProfileURL, &post.TextContent, &post.MediaURLs, &post.Engagement.Likes,
		&post.Engagement.Reshares, &post.Engagement.Replies, &platform, &post.CapturedAtEpochMs,
		&post.AuthorFollowupText, &post.OtherCommentsDigest, &enrichment,
	)
	if err != nil {
		return domain.CapturedPost{}, err
	}
	post.Platform = domain.Platform(platform)
	post.Enrichment, err = decodeEnrichment(enrichment)
	return post, err
}

func (p *Pgx) query(ctx context.Context, b sq.SelectBuilder) ([]domain.CapturedPost, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.CapturedPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *Pgx) Get(ctx context.Context, id string) (domain.CapturedPost, error) {
	query, args, err := repositories.SqBuilder.
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.CapturedPost{}, repositories.ErrBadQuery
	}

	post, err := scanPost(p.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CapturedPost{}, ErrNotFound
		}
		return domain.CapturedPost{}, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

func listQuery(limit uint64) sq.SelectBuilder {
	b := repositories.SqBuilder.
		Select(columns...).
		From(table).
		OrderBy("captured_at DESC")
	if limit > 0 {
		b = b.Limit(limit)
	}
	return b
}

func (p *Pgx) List(ctx context.Context, limit uint64) ([]domain.CapturedPost, error) {
	return p.query(ctx, listQuery(limit))
}

func (p *Pgx) ListByIDs(ctx context.Context, ids []string) ([]domain.CapturedPost, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return p.query(ctx, listQuery(0).Where(sq.Eq{"id": ids}))
}

func enrichQuery(id string, enrichment []byte) (string, []any, error) {
	return repositories.SqBuilder.
		Update(table).
		Set("enrichment", enrichment).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"enrichment": nil}).
		ToSql()
}

func (p *Pgx) SetEnrichment(ctx context.Context, id string, result domain.EnrichmentResult) error {
	enrichment, err := encodeEnrichment(&result)
	if err != nil {
		return err
	}

	query, args, err := enrichQuery(id, enrichment)
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to set enrichment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	existsQuery, existsArgs, err := repositories.SqBuilder.
		Select("1").
		From(table).
		Where(sq.Eq{"id": id}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}
	var exists bool
	if err := p.pg.QueryRow(ctx, existsQuery, existsArgs...).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check post: %w", err)
	}
	if exists {
		return ErrAlreadyEnriched
	}
	return ErrNotFound
}

func (p *Pgx) Delete(ctx context.Context, id string) error {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func trimQuery(max int) (string, []any, error) {
	keep := repositories.SqBuilder.
		Select("id").
		From(table).
		OrderBy("captured_at DESC").
		Limit(uint64(max))

	return repositories.SqBuilder.
		Delete(table).
		Where(sq.Expr("id NOT IN (?)", keep)).
		ToSql()
}

func (p *Pgx) TrimToLimit(ctx context.Context, max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}
	query, args, err := trimQuery(max)
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to trim posts: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Pgx) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := repositories.SqBuilder.
		Delete(table).
		Where(sq.Lt{"captured_at": cutoff.UnixMilli()}).
		ToSql()
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	tag, err := p.pg.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old posts: %w", err)
	}
	return tag.RowsAffected(), nil
}
