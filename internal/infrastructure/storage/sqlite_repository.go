package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"PreprintScanner/internal/domain"
	"PreprintScanner/internal/ports"
)

const articlesTable = "articles"

// Column order is part of the on-disk contract.
const schema = `CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT UNIQUE NOT NULL,
	title TEXT UNIQUE NOT NULL,
	authors TEXT NOT NULL,
	subjects TEXT NOT NULL,
	comments TEXT,
	popularity INTEGER DEFAULT 0,
	pdf_link TEXT NOT NULL
)`

var recordColumns = []string{"external_id", "title", "authors", "subjects", "comments", "popularity", "pdf_link"}

// SQLiteRepository persists selected articles into SQLite. Rows are only
// ever inserted, never updated or deleted.
type SQLiteRepository struct {
	db *sql.DB
}

var _ ports.ArticleRepository = (*SQLiteRepository)(nil)

// Open connects to the SQLite file at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	repo := NewSQLiteRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLiteRepository wires a sql.DB implementation.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureSchema creates the articles table when it is missing.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Exists reports whether an article with externalID has been persisted.
func (r *SQLiteRepository) Exists(ctx context.Context, externalID string) (bool, error) {
	query, args, err := sq.Select("1").
		From(articlesTable).
		Where(sq.Eq{"external_id": externalID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build lookup: %w", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("lookup %s: %w", externalID, err)
	}
	return true, nil
}

// Get loads a persisted article by external id. ok is false when absent.
func (r *SQLiteRepository) Get(ctx context.Context, externalID string) (rec domain.ArticleRecord, ok bool, err error) {
	query, args, err := sq.Select(recordColumns...).
		From(articlesTable).
		Where(sq.Eq{"external_id": externalID}).
		ToSql()
	if err != nil {
		return rec, false, fmt.Errorf("build get: %w", err)
	}

	var comments sql.NullString
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ExternalID,
		&rec.Title,
		&rec.Authors,
		&rec.Subjects,
		&comments,
		&rec.Popularity,
		&rec.PDFLink,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ArticleRecord{}, false, nil
	}
	if err != nil {
		return domain.ArticleRecord{}, false, fmt.Errorf("get %s: %w", externalID, err)
	}
	rec.Comments = comments.String
	return rec, true, nil
}

// InsertBatch writes all records in one transaction. A uniqueness violation
// rolls back the whole batch and is reported as a *domain.ConflictError.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, records []domain.ArticleRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, rec := range records {
		query, args, buildErr := sq.Insert(articlesTable).
			Columns(recordColumns...).
			Values(
				rec.ExternalID,
				rec.Title,
				rec.Authors,
				rec.Subjects,
				sql.NullString{String: rec.Comments, Valid: rec.Comments != ""},
				int(rec.Popularity),
				rec.PDFLink,
			).
			ToSql()
		if buildErr != nil {
			return fmt.Errorf("build insert: %w", buildErr)
		}

		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			if isUniqueViolation(execErr) {
				return &domain.ConflictError{ExternalID: rec.ExternalID, Title: rec.Title, Err: execErr}
			}
			return fmt.Errorf("insert %s: %w", rec.ExternalID, execErr)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
