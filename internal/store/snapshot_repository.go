// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-protected-text/internal/logger"
	"github.com/MKhiriev/go-protected-text/models"
)

// snapshotRow is the on-disk shape of [models.Snapshot].
type snapshotRow struct {
	Name              string
	Blob              []byte
	IsNew             bool
	CurrentDBVersion  int
	ExpectedDBVersion int
	FetchedAt         time.Time
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshotRow(s scanner) (snapshotRow, error) {
	var row snapshotRow
	err := s.Scan(
		&row.Name,
		&row.Blob,
		&row.IsNew,
		&row.CurrentDBVersion,
		&row.ExpectedDBVersion,
		&row.FetchedAt,
	)
	return row, err
}

func (r snapshotRow) toModel() (models.Snapshot, error) {
	content, err := decompressBlob(r.Blob)
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.Snapshot{
		Name:              r.Name,
		EncryptedContent:  content,
		IsNew:             r.IsNew,
		CurrentDBVersion:  r.CurrentDBVersion,
		ExpectedDBVersion: r.ExpectedDBVersion,
		FetchedAt:         r.FetchedAt,
	}, nil
}

type snapshotRepository struct {
	*DB
	logger *logger.Logger
}

// NewSnapshotRepository returns a [SnapshotRepository] backed by db.
func NewSnapshotRepository(db *DB, logger *logger.Logger) SnapshotRepository {
	return &snapshotRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *snapshotRepository) SaveSnapshot(ctx context.Context, snapshot models.Snapshot) error {
	log := logger.FromContext(ctx)

	blob, err := compressBlob(snapshot.EncryptedContent)
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Str("site", snapshot.Name).Msg("failed to compress snapshot")
		return err
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	query, args, err := buildUpsertSnapshotQuery(snapshotRow{
		Name:              snapshot.Name,
		Blob:              blob,
		IsNew:             snapshot.IsNew,
		CurrentDBVersion:  snapshot.CurrentDBVersion,
		ExpectedDBVersion: snapshot.ExpectedDBVersion,
		FetchedAt:         fetchedAt.UTC(),
	})
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.SaveSnapshot").Msg("failed to build upsert query")
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.SaveSnapshot").
			Str("site", snapshot.Name).
			Msg("failed to execute upsert for snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *snapshotRepository) GetSnapshot(ctx context.Context, name string) (models.Snapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectSnapshotQuery(name)
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.GetSnapshot").Msg("failed to build select query")
		return models.Snapshot{}, err
	}

	row, err := scanSnapshotRow(s.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.GetSnapshot").
			Str("site", name).
			Msg("failed to scan snapshot")
		return models.Snapshot{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	snapshot, err := row.toModel()
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.GetSnapshot").Str("site", name).Msg("cached blob is corrupted")
		return models.Snapshot{}, err
	}

	return snapshot, nil
}

func (s *snapshotRepository) DeleteSnapshot(ctx context.Context, name string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteSnapshotQuery(name)
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.DeleteSnapshot").Msg("failed to build delete query")
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "snapshotRepository.DeleteSnapshot").
			Str("site", name).
			Msg("failed to delete snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *snapshotRepository) ListSnapshots(ctx context.Context) ([]models.Snapshot, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectAllSnapshotsQuery()
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.ListSnapshots").Msg("failed to build select query")
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "snapshotRepository.ListSnapshots").Msg("failed to query snapshots")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	snapshots := make([]models.Snapshot, 0)
	for rows.Next() {
		row, err := scanSnapshotRow(rows)
		if err != nil {
			log.Err(err).Str("func", "snapshotRepository.ListSnapshots").Msg("failed to scan snapshot row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		snapshot, err := row.toModel()
		if err != nil {
			log.Err(err).Str("func", "snapshotRepository.ListSnapshots").Str("site", row.Name).Msg("cached blob is corrupted")
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "snapshotRepository.ListSnapshots").Msg("rows iteration failed")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return snapshots, nil
}
