package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const snapshotsTable = "snapshots"

var snapshotColumns = []string{
	"name",
	"encrypted_content",
	"is_new",
	"current_db_version",
	"expected_db_version",
	"fetched_at",
}

// sqlite uses ? placeholders
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

const upsertSnapshotSuffix = `ON CONFLICT(name) DO UPDATE SET
		encrypted_content = excluded.encrypted_content,
		is_new = excluded.is_new,
		current_db_version = excluded.current_db_version,
		expected_db_version = excluded.expected_db_version,
		fetched_at = excluded.fetched_at`

func buildUpsertSnapshotQuery(row snapshotRow) (string, []any, error) {
	query, args, err := builder.
		Insert(snapshotsTable).
		Columns(snapshotColumns...).
		Values(row.Name, row.Blob, row.IsNew, row.CurrentDBVersion, row.ExpectedDBVersion, row.FetchedAt).
		Suffix(upsertSnapshotSuffix).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectSnapshotQuery(name string) (string, []any, error) {
	query, args, err := builder.
		Select(snapshotColumns...).
		From(snapshotsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildSelectAllSnapshotsQuery() (string, []any, error) {
	query, args, err := builder.
		Select(snapshotColumns...).
		From(snapshotsTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteSnapshotQuery(name string) (string, []any, error) {
	query, args, err := builder.
		Delete(snapshotsTable).
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
