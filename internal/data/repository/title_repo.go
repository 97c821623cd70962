package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TitleFilter narrows title listings. Zero values disable a condition.
type TitleFilter struct {
	Name     string
	Year     *int
	Genre    string
	Category string
}

type TitleRepository interface {
	Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter TitleFilter) (int64, error)
	Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, t.created_at, t.updated_at,
	       c.name, c.slug, c.created_at,
	       (SELECT AVG(r.score)::float8 FROM reviews r WHERE r.title_id = t.id) AS rating
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
`

const titleFilterWhere = `
	WHERE ($1::text = '' OR t.name ILIKE '%' || $1::text || '%')
	  AND ($2::int IS NULL OR t.year = $2::int)
	  AND ($3::text = '' OR EXISTS (
	        SELECT 1
	        FROM title_genres tg
	        INNER JOIN genres g ON g.id = tg.genre_id
	        WHERE tg.title_id = t.id AND LOWER(g.slug) = LOWER($3::text)))
	  AND ($4::text = '' OR LOWER(c.slug) = LOWER($4::text))
`

func scanTitle(row rowScanner) (*entity.Title, error) {
	var (
		title             entity.Title
		categoryName      *string
		categorySlug      *string
		categoryCreatedAt *time.Time
	)

	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.CreatedAt,
		&title.UpdatedAt,
		&categoryName,
		&categorySlug,
		&categoryCreatedAt,
		&title.Rating,
	)
	if err != nil {
		return nil, err
	}

	if title.CategoryID != nil && categorySlug != nil {
		title.Category = &entity.Category{
			BaseSimple: entity.BaseSimple{ID: *title.CategoryID},
			Name:       derefString(categoryName),
			Slug:       *categorySlug,
		}
		if categoryCreatedAt != nil {
			title.Category.CreatedAt = *categoryCreatedAt
		}
	}

	return &title, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Create inserts the title and links its genres in one transaction.
func (r *titleRepository) Create(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin create title: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	); err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	if err := r.linkGenres(ctx, tx, title.ID, genreIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit title", zap.Error(err))
		return fmt.Errorf("commit create title %s: %w", title.Name, err)
	}

	return nil
}

func (r *titleRepository) linkGenres(ctx context.Context, tx pgx.Tx, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	if len(genreIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO title_genres (title_id, genre_id)
		SELECT $1, g FROM unnest($2::uuid[]) AS g
		ON CONFLICT DO NOTHING
	`

	if _, err := tx.Exec(ctx, query, titleID, uuidStrings(genreIDs)); err != nil {
		r.log.Error("Failed to link title genres",
			zap.Error(err),
			zap.String("title_id", titleID.String()),
		)
		return fmt.Errorf("link genres to title %s: %w", titleID.String(), err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Title, error) {
	title, err := scanTitle(r.db.QueryRow(ctx, titleSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return nil, fmt.Errorf("find title by id %s: %w", id.String(), err)
	}

	return title, nil
}

func (r *titleRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check title existence",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return false, fmt.Errorf("check title %s exists: %w", id.String(), err)
	}
	return exists, nil
}

func filterArgs(filter TitleFilter) []any {
	return []any{escapeLike(filter.Name), filter.Year, filter.Genre, filter.Category}
}

// FindAll lists titles ordered by name. Genres are not loaded here.
func (r *titleRepository) FindAll(ctx context.Context, filter TitleFilter, limit, offset int) ([]*entity.Title, error) {
	query := titleSelect + titleFilterWhere + `
		ORDER BY t.name, t.id
		LIMIT $5 OFFSET $6
	`

	args := append(filterArgs(filter), limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get all titles",
			zap.Error(err),
			zap.Any("filter", filter),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate titles rows: %w", err)
	}

	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter TitleFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
	` + titleFilterWhere

	var count int64
	if err := r.db.QueryRow(ctx, query, filterArgs(filter)...).Scan(&count); err != nil {
		r.log.Error("Database error counting titles", zap.Error(err))
		return 0, fmt.Errorf("count all titles: %w", err)
	}

	return count, nil
}

// Update writes the scalar fields of title. When genreIDs is non-nil the
// title's genre set is replaced by it in the same transaction.
func (r *titleRepository) Update(ctx context.Context, title *entity.Title, genreIDs []uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin update title: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE titles
		SET name = $2, year = $3, description = $4, category_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update title",
			zap.Error(err),
			zap.String("title_id", title.ID.String()),
		)
		return fmt.Errorf("update title %s: %w", title.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update title %s: %w", title.ID.String(), ErrNotFound)
	}

	if genreIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM title_genres WHERE title_id = $1`, title.ID); err != nil {
			r.log.Error("Failed to clear title genres",
				zap.Error(err),
				zap.String("title_id", title.ID.String()),
			)
			return fmt.Errorf("clear genres of title %s: %w", title.ID.String(), err)
		}
		if err := r.linkGenres(ctx, tx, title.ID, genreIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit title update", zap.Error(err))
		return fmt.Errorf("commit update title %s: %w", title.ID.String(), err)
	}

	return nil
}

// Delete removes the title together with its reviews and their comments.
func (r *titleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title",
			zap.Error(err),
			zap.String("title_id", id.String()),
		)
		return fmt.Errorf("delete title %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete title %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
