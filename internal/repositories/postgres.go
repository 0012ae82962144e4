package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/golfcloud/backend/internal/db"
	"github.com/golfcloud/backend/internal/models"
)

// PostgresVideoRepository provides PostgreSQL-backed persistence for video metadata.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Upsert writes the full metadata row for a storage key, replacing any
// previous row for the same key (last writer wins).
func (r *PostgresVideoRepository) Upsert(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if video.Tags == nil {
		video.Tags = []string{}
	}

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (id, owner_id, name, s3_key, s3_url, rating, club, shot_type, notes, favorite, tags, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (s3_key)
        DO UPDATE SET
            name = EXCLUDED.name,
            rating = EXCLUDED.rating,
            club = EXCLUDED.club,
            shot_type = EXCLUDED.shot_type,
            notes = EXCLUDED.notes,
            favorite = EXCLUDED.favorite,
            tags = EXCLUDED.tags,
            updated_at = EXCLUDED.updated_at
    `, video.ID, video.OwnerID, video.Name, video.Key, video.URL, video.Rating, video.Club, video.ShotType, video.Notes, video.Favorite, video.Tags, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("upsert video: %w", err)
	}

	return nil
}

// FindByKey fetches the metadata row for a storage key.
func (r *PostgresVideoRepository) FindByKey(ctx context.Context, key string) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, owner_id, name, s3_key, s3_url, rating, club, shot_type, notes, favorite, tags, created_at, updated_at
        FROM videos
        WHERE s3_key = $1
    `, key)

	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("select video by key: %w", err)
	}

	return video, nil
}

// FindByKeys fetches the metadata rows for a set of storage keys. Keys
// without a row are simply absent from the result.
func (r *PostgresVideoRepository) FindByKeys(ctx context.Context, keys []string) ([]models.Video, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, name, s3_key, s3_url, rating, club, shot_type, notes, favorite, tags, created_at, updated_at
        FROM videos
        WHERE s3_key = ANY($1)
    `, keys)
	if err != nil {
		return nil, fmt.Errorf("query videos by keys: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos by keys: %w", err)
	}

	return videos, nil
}

// UpdateRating updates only the rating column for a storage key.
func (r *PostgresVideoRepository) UpdateRating(ctx context.Context, key string, rating int) error {
	return r.updateColumn(ctx, key, "rating", rating)
}

// UpdateClub updates only the club column for a storage key.
func (r *PostgresVideoRepository) UpdateClub(ctx context.Context, key, club string) error {
	return r.updateColumn(ctx, key, "club", club)
}

func (r *PostgresVideoRepository) updateColumn(ctx context.Context, key, column string, value any) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	// column is always one of the fixed names above, never caller input.
	tag, err := conn.Exec(ctx, fmt.Sprintf(`
        UPDATE videos
        SET %s = $2, updated_at = NOW()
        WHERE s3_key = $1
    `, column), key, value)
	if err != nil {
		return fmt.Errorf("update video %s: %w", column, err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByKey removes the metadata row for a storage key. The stored object
// itself is untouched; deleting a row that does not exist is a no-op.
func (r *PostgresVideoRepository) DeleteByKey(ctx context.Context, key string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `DELETE FROM videos WHERE s3_key = $1`, key); err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	return nil
}

// ListVisibleTo returns the union of the caller's own videos and the videos
// of every player that granted the caller's email coach access, newest first.
// Visibility is recomputed per call; nothing is cached.
func (r *PostgresVideoRepository) ListVisibleTo(ctx context.Context, userID, email string) ([]models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        WITH granting_players AS (
            SELECT player_id
            FROM coach_access
            WHERE coach_email = $2
        )
        SELECT id, owner_id, name, s3_key, s3_url, rating, club, shot_type, notes, favorite, tags, created_at, updated_at
        FROM videos
        WHERE owner_id = $1 OR owner_id IN (SELECT player_id FROM granting_players)
        ORDER BY created_at DESC
        LIMIT 500
    `, userID, email)
	if err != nil {
		return nil, fmt.Errorf("query visible videos: %w", err)
	}
	defer rows.Close()

	var videos []models.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visible videos: %w", err)
	}

	return videos, nil
}

func scanVideo(row pgx.Row) (models.Video, error) {
	var video models.Video
	err := row.Scan(
		&video.ID, &video.OwnerID, &video.Name, &video.Key, &video.URL,
		&video.Rating, &video.Club, &video.ShotType, &video.Notes,
		&video.Favorite, &video.Tags, &video.CreatedAt, &video.UpdatedAt,
	)
	return video, err
}

// PostgresGrantRepository provides PostgreSQL-backed persistence for coach access grants.
type PostgresGrantRepository struct {
	pool db.Pool
}

// NewPostgresGrantRepository constructs a grant repository backed by PostgreSQL.
func NewPostgresGrantRepository(pool db.Pool) *PostgresGrantRepository {
	return &PostgresGrantRepository{pool: pool}
}

// Grant records a (player, coach email) pair. Granting the same pair twice
// is treated as success and leaves a single row in place.
func (r *PostgresGrantRepository) Grant(ctx context.Context, grant models.AccessGrant) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO coach_access (id, player_id, coach_email, created_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (player_id, coach_email) DO NOTHING
    `, grant.ID, grant.PlayerID, grant.CoachEmail, grant.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert coach grant: %w", err)
	}

	return nil
}

// Revoke deletes the grant matching the exact pair. Revoking a grant that
// does not exist is a silent no-op.
func (r *PostgresGrantRepository) Revoke(ctx context.Context, playerID, coachEmail string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM coach_access
        WHERE player_id = $1 AND coach_email = $2
    `, playerID, coachEmail); err != nil {
		return fmt.Errorf("delete coach grant: %w", err)
	}

	return nil
}

// ListForPlayer returns a player's grants ordered by creation time, newest first.
func (r *PostgresGrantRepository) ListForPlayer(ctx context.Context, playerID string) ([]models.AccessGrant, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, player_id, coach_email, created_at
        FROM coach_access
        WHERE player_id = $1
        ORDER BY created_at DESC
    `, playerID)
	if err != nil {
		return nil, fmt.Errorf("query coach grants: %w", err)
	}
	defer rows.Close()

	var grants []models.AccessGrant
	for rows.Next() {
		var grant models.AccessGrant
		if err := rows.Scan(&grant.ID, &grant.PlayerID, &grant.CoachEmail, &grant.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan coach grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coach grants: %w", err)
	}

	return grants, nil
}

var _ VideoRepository = (*PostgresVideoRepository)(nil)
var _ GrantRepository = (*PostgresGrantRepository)(nil)
