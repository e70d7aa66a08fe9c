package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ayvazoglu/title-catalog/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const titleColumns = `id, show_id, type, title, COALESCE(director, ''), COALESCE(cast_members, ''),
	COALESCE(country, ''), date_added, release_year, COALESCE(rating, ''), COALESCE(duration, ''),
	listed_in, description, created_at, version`

type PostgresTitleRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTitleRepository(db *pgxpool.Pool) *PostgresTitleRepository {
	return &PostgresTitleRepository{
		db: db,
	}
}

func (p *PostgresTitleRepository) GetAll(ctx context.Context, filters domain.TitleFilters) ([]*domain.Title, *domain.Metadata, error) {
	query := `SELECT count(*) OVER(), ` + titleColumns + `
		FROM titles
		WHERE ($1 = '' OR type = $1)
			AND ($2::int IS NULL OR release_year = $2)
			AND ($3 = '' OR listed_in ILIKE '%' || $3 || '%')
		ORDER BY title, id
		LIMIT $4 OFFSET $5`

	rows, err := p.db.Query(ctx, query, filters.Type, filters.Year, escapeLike(filters.Genre), filters.Limit(), filters.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	titles := []*domain.Title{}

	for rows.Next() {
		title, err := scanTitle(rows, &totalRecords)
		if err != nil {
			return nil, nil, err
		}

		titles = append(titles, title)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, filters.Page, filters.PageSize)

	return titles, metadata, nil
}

func (p *PostgresTitleRepository) GetByID(ctx context.Context, id int) (*domain.Title, error) {
	query := `SELECT ` + titleColumns + ` FROM titles WHERE id = $1`

	var (
		title     domain.Title
		dateAdded pgtype.Date
	)

	err := p.db.QueryRow(ctx, query, id).Scan(
		&title.ID,
		&title.ShowID,
		&title.Type,
		&title.Title,
		&title.Director,
		&title.Cast,
		&title.Country,
		&dateAdded,
		&title.ReleaseYear,
		&title.Rating,
		&title.Duration,
		&title.ListedIn,
		&title.Description,
		&title.CreatedAt,
		&title.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	if dateAdded.Valid {
		d := dateAdded.Time
		title.DateAdded = &d
	}

	return &title, nil
}

func (p *PostgresTitleRepository) Create(ctx context.Context, title *domain.Title) error {
	query := `INSERT INTO titles (show_id, type, title, director, cast_members, country, date_added,
			release_year, rating, duration, listed_in, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, version`

	err := p.db.QueryRow(ctx, query,
		title.ShowID,
		title.Type,
		title.Title,
		textOrNull(title.Director),
		textOrNull(title.Cast),
		textOrNull(title.Country),
		dateOrNull(title.DateAdded),
		title.ReleaseYear,
		textOrNull(title.Rating),
		textOrNull(title.Duration),
		title.ListedIn,
		title.Description,
	).Scan(&title.ID, &title.CreatedAt, &title.Version)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrDuplicateShowID
		}

		return err
	}

	return nil
}

// Update replaces every mutable field. The version check turns a lost
// concurrent update into ErrEditConflict instead of a silent overwrite.
func (p *PostgresTitleRepository) Update(ctx context.Context, title *domain.Title) error {
	query := `UPDATE titles
		SET type = $1, title = $2, director = $3, cast_members = $4, country = $5, date_added = $6,
			release_year = $7, rating = $8, duration = $9, listed_in = $10, description = $11,
			version = version + 1
		WHERE id = $12 AND version = $13
		RETURNING version`

	err := p.db.QueryRow(ctx, query,
		title.Type,
		title.Title,
		textOrNull(title.Director),
		textOrNull(title.Cast),
		textOrNull(title.Country),
		dateOrNull(title.DateAdded),
		title.ReleaseYear,
		textOrNull(title.Rating),
		textOrNull(title.Duration),
		title.ListedIn,
		title.Description,
		title.ID,
		title.Version,
	).Scan(&title.Version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresTitleRepository) Delete(ctx context.Context, id int) error {
	result, err := p.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (p *PostgresTitleRepository) GetRecent(ctx context.Context, since time.Time, limit int) ([]*domain.Title, error) {
	query := `SELECT 0, ` + titleColumns + `
		FROM titles
		WHERE date_added IS NOT NULL AND date_added >= $1
		ORDER BY date_added DESC, id DESC
		LIMIT $2`

	rows, err := p.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	titles := []*domain.Title{}
	discard := 0

	for rows.Next() {
		title, err := scanTitle(rows, &discard)
		if err != nil {
			return nil, err
		}

		titles = append(titles, title)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return titles, nil
}

// GetStats aggregates the counts and year bounds in SQL, then folds the
// listed_in values into genre frequencies in memory. The two reads are not
// a single snapshot; concurrent writes may skew the genre ranking by a row,
// which is acceptable for a statistics endpoint.
func (p *PostgresTitleRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	query := `SELECT count(*),
			count(*) FILTER (WHERE type = 'Movie'),
			count(*) FILTER (WHERE type = 'TV Show'),
			COALESCE(min(release_year), 0),
			COALESCE(max(release_year), 0)
		FROM titles`

	var stats domain.Stats

	err := p.db.QueryRow(ctx, query).Scan(
		&stats.TotalTitles,
		&stats.MoviesCount,
		&stats.TVShowsCount,
		&stats.MinYear,
		&stats.MaxYear,
	)
	if err != nil {
		return nil, err
	}

	rows, err := p.db.Query(ctx, `SELECT listed_in FROM titles`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listedIn := []string{}

	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}

		listedIn = append(listedIn, v)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	stats.TopGenres = domain.TopGenres(domain.CountGenres(listedIn), 10)

	return &stats, nil
}

func (p *PostgresTitleRepository) ExistsByShowID(ctx context.Context, showID string) (bool, error) {
	var exists bool

	err := p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM titles WHERE show_id = $1)`, showID).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// BulkUpsert inserts every record, replacing the existing row when its
// show_id is already present. Used by the CSV ingest command, so reruns
// over the same dataset stay idempotent.
func (p *PostgresTitleRepository) BulkUpsert(ctx context.Context, titles []*domain.Title) (*domain.UpsertResult, error) {
	query := `INSERT INTO titles (show_id, type, title, director, cast_members, country, date_added,
			release_year, rating, duration, listed_in, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (show_id) DO UPDATE
		SET type = EXCLUDED.type, title = EXCLUDED.title, director = EXCLUDED.director,
			cast_members = EXCLUDED.cast_members, country = EXCLUDED.country,
			date_added = EXCLUDED.date_added, release_year = EXCLUDED.release_year,
			rating = EXCLUDED.rating, duration = EXCLUDED.duration,
			listed_in = EXCLUDED.listed_in, description = EXCLUDED.description,
			version = titles.version + 1
		RETURNING (xmax = 0)`

	batch := &pgx.Batch{}

	for _, title := range titles {
		batch.Queue(query,
			title.ShowID,
			title.Type,
			title.Title,
			textOrNull(title.Director),
			textOrNull(title.Cast),
			textOrNull(title.Country),
			dateOrNull(title.DateAdded),
			title.ReleaseYear,
			textOrNull(title.Rating),
			textOrNull(title.Duration),
			title.ListedIn,
			title.Description,
		)
	}

	results := p.db.SendBatch(ctx, batch)
	defer results.Close()

	result := &domain.UpsertResult{}

	for range titles {
		var inserted bool

		if err := results.QueryRow().Scan(&inserted); err != nil {
			return nil, err
		}

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
	}

	return result, nil
}

func scanTitle(rows pgx.Rows, totalRecords *int) (*domain.Title, error) {
	var (
		title     domain.Title
		dateAdded pgtype.Date
	)

	err := rows.Scan(
		totalRecords,
		&title.ID,
		&title.ShowID,
		&title.Type,
		&title.Title,
		&title.Director,
		&title.Cast,
		&title.Country,
		&dateAdded,
		&title.ReleaseYear,
		&title.Rating,
		&title.Duration,
		&title.ListedIn,
		&title.Description,
		&title.CreatedAt,
		&title.Version,
	)
	if err != nil {
		return nil, err
	}

	if dateAdded.Valid {
		d := dateAdded.Time
		title.DateAdded = &d
	}

	return &title, nil
}

func textOrNull(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func dateOrNull(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}

	return pgtype.Date{Time: *t, Valid: true}
}

// escapeLike neutralizes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
