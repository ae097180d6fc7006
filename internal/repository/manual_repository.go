package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"crewassist/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ManualRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewManualRepository(db *pgxpool.Pool, logger *zap.Logger) *ManualRepository {
	return &ManualRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a manual excerpt with its embedding. Used by the seeding tool.
func (r *ManualRepository) Create(ctx context.Context, chunk *models.ManualChunk) error {
	metadata, err := json.Marshal(chunk.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := squirrel.Insert("manual_chunks").
		Columns("id", "title", "content", "embedding", "metadata", "created_at", "updated_at").
		Values(chunk.ID, chunk.Title, chunk.Content,
			squirrel.Expr("?::vector", vectorLiteral(chunk.Embedding)),
			metadata, chunk.CreatedAt, chunk.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// SearchSimilar returns the excerpts nearest to the query embedding, most
// similar first. Rows below minSimilarity are filtered in SQL: pgvector's
// match_threshold parameter semantics vary per index, so the threshold is
// enforced here rather than trusted to the store.
func (r *ManualRepository) SearchSimilar(ctx context.Context, embedding []float32, topK int, minSimilarity float64) ([]*models.ManualChunk, error) {
	vec := vectorLiteral(embedding)

	query := squirrel.Select("id", "title", "content", "metadata", "created_at", "updated_at").
		Column(squirrel.Expr("1 - (embedding <=> ?::vector) AS similarity", vec)).
		From("manual_chunks").
		Where(squirrel.Expr("1 - (embedding <=> ?::vector) >= ?", vec, minSimilarity)).
		OrderBy("similarity DESC").
		Limit(uint64(topK)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ManualChunk
	for rows.Next() {
		var chunk models.ManualChunk
		var metadata []byte

		if err := rows.Scan(
			&chunk.ID, &chunk.Title, &chunk.Content, &metadata,
			&chunk.CreatedAt, &chunk.UpdatedAt, &chunk.Similarity,
		); err != nil {
			return nil, err
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &chunk.Metadata); err != nil {
				r.logger.Warn("Malformed chunk metadata, media will be omitted",
					zap.String("chunk_id", chunk.ID.String()),
					zap.Error(err),
				)
			}
		}
		results = append(results, &chunk)
	}

	return results, rows.Err()
}

// vectorLiteral renders a float32 slice in pgvector's input format: [v1,v2,...].
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
