package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PreprintScanner/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := Open(context.Background(), filepath.Join(t.TempDir(), "articles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func record(id, title string, p domain.Popularity) domain.ArticleRecord {
	return domain.ArticleRecord{
		ExternalID: id,
		Title:      title,
		Authors:    "Jane Doe",
		Subjects:   "Machine Learning (cs.LG)",
		Popularity: p,
		PDFLink:    "https://arxiv.org/pdf/" + id,
	}
}

func TestSchemaColumnOrder(t *testing.T) {
	repo := openTestRepo(t)

	rows, err := repo.db.Query(`PRAGMA table_info(articles)`)
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid       int
			name, typ string
			notNull   int
			dflt      any
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, []string{"id", "external_id", "title", "authors", "subjects", "comments", "popularity", "pdf_link"}, columns)
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	repo := openTestRepo(t)
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestInsertBatchAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	withComments := record("2501.00001", "First", domain.PopularityNotice)
	withComments.Comments = "To be published in JMLR"
	batch := []domain.ArticleRecord{withComments, record("2501.00002", "Second", domain.PopularityNone)}

	require.NoError(t, repo.InsertBatch(ctx, batch))

	seen, err := repo.Exists(ctx, "2501.00001")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = repo.Exists(ctx, "2501.99999")
	require.NoError(t, err)
	assert.False(t, seen)

	got, ok, err := repo.Get(ctx, "2501.00001")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, withComments, got)

	got, ok, err = repo.Get(ctx, "2501.00002")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", got.Comments)

	_, ok, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInsertBatchEmpty(t *testing.T) {
	repo := openTestRepo(t)
	assert.NoError(t, repo.InsertBatch(context.Background(), nil))
}

func TestInsertBatchConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	require.NoError(t, repo.InsertBatch(ctx, []domain.ArticleRecord{record("2501.00001", "Taken Title", domain.PopularityJournal)}))

	tests := []struct {
		name  string
		batch []domain.ArticleRecord
		id    string
	}{
		{
			name:  "duplicate external id",
			batch: []domain.ArticleRecord{record("2501.00010", "Fresh", 0), record("2501.00001", "Other Title", 0)},
			id:    "2501.00001",
		},
		{
			name:  "duplicate title",
			batch: []domain.ArticleRecord{record("2501.00020", "Fresh Two", 0), record("2501.00021", "Taken Title", 0)},
			id:    "2501.00021",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.InsertBatch(ctx, tc.batch)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrPersistenceConflict))

			var conflict *domain.ConflictError
			require.True(t, errors.As(err, &conflict))
			assert.Equal(t, tc.id, conflict.ExternalID)

			seen, err := repo.Exists(ctx, tc.batch[0].ExternalID)
			require.NoError(t, err)
			assert.False(t, seen, "first record of a rejected batch must not persist")
		})
	}
}
