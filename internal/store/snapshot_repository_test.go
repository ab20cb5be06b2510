package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/models"
)

func newMockRepository(t *testing.T) (SnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	log := logger.Nop()
	return NewSnapshotRepository(&DB{DB: conn, logger: log}, log), mock
}

func mustCompress(t *testing.T, content string) []byte {
	t.Helper()
	blob, err := compressBlob(content)
	require.NoError(t, err)
	return blob
}

var snapshotRowColumns = []string{
	"name", "encrypted_content", "is_new", "current_db_version", "expected_db_version", "fetched_at",
}

func TestSnapshotRepository_SaveSnapshot(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{name: "upsert succeeds"},
		{name: "exec fails", execErr: errors.New("disk I/O error"), wantErr: ErrExecutingStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			exp := mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots (name,encrypted_content,is_new,current_db_version,expected_db_version,fetched_at) VALUES (?,?,?,?,?,?) ON CONFLICT(name)")).
				WithArgs("notes", sqlmock.AnyArg(), false, 2, 2, fetchedAt)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := repo.SaveSnapshot(context.Background(), models.Snapshot{
				Name:              "notes",
				EncryptedContent:  "U2FsdGVkX1+blob",
				CurrentDBVersion:  2,
				ExpectedDBVersion: 2,
				FetchedAt:         fetchedAt,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSnapshotRepository_GetSnapshot(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	selectQuery := regexp.QuoteMeta("SELECT name, encrypted_content, is_new, current_db_version, expected_db_version, fetched_at FROM snapshots WHERE name = ?")

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("notes").
			WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
				AddRow("notes", mustCompress(t, "U2FsdGVkX1+blob"), false, int64(2), int64(2), fetchedAt))

		got, err := repo.GetSnapshot(context.Background(), "notes")
		require.NoError(t, err)
		assert.Equal(t, models.Snapshot{
			Name:              "notes",
			EncryptedContent:  "U2FsdGVkX1+blob",
			CurrentDBVersion:  2,
			ExpectedDBVersion: 2,
			FetchedAt:         fetchedAt,
		}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(snapshotRowColumns))

		_, err := repo.GetSnapshot(context.Background(), "missing")
		require.ErrorIs(t, err, ErrSnapshotNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupted blob", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("notes").
			WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
				AddRow("notes", []byte("not zstd"), false, int64(2), int64(2), fetchedAt))

		_, err := repo.GetSnapshot(context.Background(), "notes")
		require.ErrorIs(t, err, ErrDecompressingSnapshot)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(selectQuery).
			WithArgs("notes").
			WillReturnError(errors.New("database is locked"))

		_, err := repo.GetSnapshot(context.Background(), "notes")
		require.ErrorIs(t, err, ErrScanningRow)
	})
}

func TestSnapshotRepository_DeleteSnapshot(t *testing.T) {
	deleteQuery := regexp.QuoteMeta("DELETE FROM snapshots WHERE name = ?")

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(deleteQuery).WithArgs("notes").WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.DeleteSnapshot(context.Background(), "notes"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// удаление отсутствующего снимка не считается ошибкой
	t.Run("nothing cached", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(deleteQuery).WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.DeleteSnapshot(context.Background(), "missing"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec fails", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(deleteQuery).WithArgs("notes").WillReturnError(errors.New("readonly database"))

		require.ErrorIs(t, repo.DeleteSnapshot(context.Background(), "notes"), ErrExecutingStatement)
	})
}

func TestSnapshotRepository_ListSnapshots(t *testing.T) {
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	listQuery := regexp.QuoteMeta("SELECT name, encrypted_content, is_new, current_db_version, expected_db_version, fetched_at FROM snapshots ORDER BY name")

	t.Run("returns rows in order", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(listQuery).
			WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
				AddRow("alpha", mustCompress(t, "blob-a"), false, int64(2), int64(2), fetchedAt).
				AddRow("beta", mustCompress(t, ""), true, int64(0), int64(2), fetchedAt))

		got, err := repo.ListSnapshots(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "alpha", got[0].Name)
		assert.Equal(t, "blob-a", got[0].EncryptedContent)
		assert.Equal(t, "beta", got[1].Name)
		assert.True(t, got[1].IsNew)
		assert.Empty(t, got[1].EncryptedContent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty cache", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(listQuery).WillReturnRows(sqlmock.NewRows(snapshotRowColumns))

		got, err := repo.ListSnapshots(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("query fails", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(listQuery).WillReturnError(errors.New("no such table: snapshots"))

		_, err := repo.ListSnapshots(context.Background())
		require.ErrorIs(t, err, ErrExecutingQuery)
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(listQuery).
			WillReturnRows(sqlmock.NewRows(snapshotRowColumns).
				AddRow("alpha", mustCompress(t, "blob-a"), false, int64(2), int64(2), fetchedAt).
				RowError(0, errors.New("interrupted")))

		_, err := repo.ListSnapshots(context.Background())
		require.ErrorIs(t, err, ErrScanningRows)
	})
}
