package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = `id, user_id, title, director, release_year, genre, runtime, tmdb_id, status, poster_url, rating, notes, created_at, updated_at`

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanMovie(row pgx.Row) (Movie, error) {
	var m Movie
	err := row.Scan(
		&m.ID, &m.UserID, &m.Title, &m.Director, &m.ReleaseYear, &m.Genre, &m.Runtime, &m.TMDbID,
		&m.Status, &m.PosterURL, &m.Rating, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PostgresRepo) Create(ctx context.Context, m *Movie) error {
	const query = `
		INSERT INTO movies (user_id, title, director, release_year, genre, runtime, tmdb_id, status, poster_url, rating, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		m.UserID, m.Title, m.Director, m.ReleaseYear, m.Genre, m.Runtime, m.TMDbID,
		m.Status, m.PosterURL, m.Rating, m.Notes,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	m, err := scanMovie(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Movie{}, ErrNotFound
		}
		return Movie{}, err
	}
	return m, nil
}

func (r *PostgresRepo) Update(ctx context.Context, m *Movie) error {
	const query = `
		UPDATE movies
		SET title = $2, director = $3, release_year = $4, genre = $5, runtime = $6, tmdb_id = $7,
		    status = $8, poster_url = $9, rating = $10, notes = $11, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		m.ID, m.Title, m.Director, m.ReleaseYear, m.Genre, m.Runtime, m.TMDbID,
		m.Status, m.PosterURL, m.Rating, m.Notes,
	).Scan(&m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	result, err := r.db.Exec(timeoutCtx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Movie, int, error) {
	clauses := []string{"user_id = $1"}
	args := []any{q.UserID}
	argn := 2

	if q.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = $%d", argn))
		args = append(args, q.Status)
		argn++
	}

	if q.Search != "" {
		clauses = append(clauses, fmt.Sprintf("(title ILIKE $%d OR director ILIKE $%d)", argn, argn))
		pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q.Search)
		args = append(args, "%"+pattern+"%")
		argn++
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, "SELECT COUNT(*) FROM movies "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s
		FROM movies
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`,
		movieColumns, where, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}
