// Package repository — хранилища реакций и отпечатков поверх Postgres (pgx).
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zamzabot/internal/logger"
	"github.com/zamzabot/internal/model"
)

var ErrNotFound = errors.New("not found")

type ReactionRepository struct {
	pool *pgxpool.Pool
}

func NewReactionRepository(pool *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{pool: pool}
}

func (r *ReactionRepository) Create(ctx context.Context, rc *model.Reaction) error {
	defer logger.DeferLogDuration("reaction.Create", time.Now())()
	createdBy, err := json.Marshal(rc.CreatedBy)
	if err != nil {
		return fmt.Errorf("reactionRepo.Create marshal: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO reactions (id, patterns, content_kind, content_text, content_image_ref, created_by, created_at, last_used_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rc.ID, rc.Patterns, string(rc.Content.Kind), rc.Content.Text, rc.Content.ImageRef,
		createdBy, rc.CreatedAt, rc.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("reactionRepo.Create: %w", err)
	}
	return nil
}

// FindByPatterns возвращает реакции, чей набор паттернов пересекается с
// запрошенным (оператор && по text[], GIN-индекс). Порядок — создания.
func (r *ReactionRepository) FindByPatterns(ctx context.Context, patterns []string) ([]model.Reaction, error) {
	defer logger.DeferLogDuration("reaction.FindByPatterns", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT id, patterns, content_kind, content_text, content_image_ref, created_by, created_at, last_used_at
		 FROM reactions
		 WHERE patterns && $1
		 ORDER BY created_at, id`, patterns,
	)
	if err != nil {
		return nil, fmt.Errorf("reactionRepo.FindByPatterns query: %w", err)
	}
	defer rows.Close()
	return collectReactions(rows, "reactionRepo.FindByPatterns")
}

// All возвращает всю коллекцию в порядке создания (порядок скана поиска).
func (r *ReactionRepository) All(ctx context.Context) ([]model.Reaction, error) {
	defer logger.DeferLogDuration("reaction.All", time.Now())()
	rows, err := r.pool.Query(ctx,
		`SELECT id, patterns, content_kind, content_text, content_image_ref, created_by, created_at, last_used_at
		 FROM reactions
		 ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("reactionRepo.All query: %w", err)
	}
	defer rows.Close()
	return collectReactions(rows, "reactionRepo.All")
}

// TouchLastUsed перезапускает окно кулдауна.
func (r *ReactionRepository) TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	defer logger.DeferLogDuration("reaction.TouchLastUsed", time.Now())()
	tag, err := r.pool.Exec(ctx,
		`UPDATE reactions SET last_used_at = $2 WHERE id = $1`, id, usedAt,
	)
	if err != nil {
		return fmt.Errorf("reactionRepo.TouchLastUsed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectReactions(rows pgx.Rows, scope string) ([]model.Reaction, error) {
	reactions := make([]model.Reaction, 0, 16)
	for rows.Next() {
		var (
			rc        model.Reaction
			kind      string
			createdBy []byte
		)
		if err := rows.Scan(&rc.ID, &rc.Patterns, &kind, &rc.Content.Text, &rc.Content.ImageRef,
			&createdBy, &rc.CreatedAt, &rc.LastUsedAt); err != nil {
			return nil, fmt.Errorf("%s scan: %w", scope, err)
		}
		rc.Content.Kind = model.ReactionContentKind(kind)
		if err := json.Unmarshal(createdBy, &rc.CreatedBy); err != nil {
			return nil, fmt.Errorf("%s created_by: %w", scope, err)
		}
		reactions = append(reactions, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", scope, err)
	}
	return reactions, nil
}
