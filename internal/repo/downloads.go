// Package repo holds data stores backed by the program database.
package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// DownloadStore records download attempts and their outcomes.
type DownloadStore struct {
	DB *sql.DB
}

// GetDownloadStore returns a download store instance with injected database.
func GetDownloadStore(db *sql.DB) *DownloadStore {
	return &DownloadStore{
		DB: db,
	}
}

// RecordStart inserts a new pending attempt row and returns its ID.
func (ds *DownloadStore) RecordStart(ctx context.Context, rec *models.DownloadRecord) (int64, error) {
	query := squirrel.
		Insert(consts.DBDownloads).
		Columns(consts.QDLURL, consts.QDLTool, consts.QDLPhase, consts.QDLClient,
			consts.QDLQuality, consts.QDLStatus, consts.QDLStartedAt).
		Values(rec.URL, rec.Tool, rec.Phase, rec.Client,
			rec.Quality, consts.DLStatusPending, time.Now()).
		RunWith(ds.DB)

	res, err := query.ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to record download start for %q: %w", rec.URL, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new download row ID: %w", err)
	}
	rec.ID = id
	return id, nil
}

// UpdateProgress updates the live status and percentage of an attempt.
func (ds *DownloadStore) UpdateProgress(ctx context.Context, id int64, percent float64) error {
	query := squirrel.
		Update(consts.DBDownloads).
		Set(consts.QDLStatus, consts.DLStatusActive).
		Set(consts.QDLPct, percent).
		Where(squirrel.Eq{consts.QDLID: id}).
		RunWith(ds.DB)

	if _, err := query.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to update progress for download %d: %w", id, err)
	}
	return nil
}

// RecordFinish marks an attempt terminal: completed, or failed with the
// classified reason and raw error text.
func (ds *DownloadStore) RecordFinish(ctx context.Context, id int64, status, reason, errText string) (err error) {
	tx, err := ds.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Panic rollback failed for download %d: %v", id, rbErr)
			}
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.E("Rollback failed for download %d (original error: %v): %v", id, err, rbErr)
			}
		}
	}()

	q := squirrel.
		Update(consts.DBDownloads).
		Set(consts.QDLStatus, status).
		Set(consts.QDLReason, reason).
		Set(consts.QDLError, errText).
		Set(consts.QDLFinishedAt, time.Now()).
		Where(squirrel.Eq{consts.QDLID: id}).
		RunWith(tx)
	if status == consts.DLStatusCompleted {
		q = q.Set(consts.QDLPct, 100.0)
	}

	if _, err = q.ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to finish download %d: %w", id, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Recent returns the latest attempts, newest first.
func (ds *DownloadStore) Recent(ctx context.Context, limit int) ([]models.DownloadRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := squirrel.
		Select(consts.QDLID, consts.QDLURL, consts.QDLTool, consts.QDLPhase,
			consts.QDLClient, consts.QDLQuality, consts.QDLStatus, consts.QDLPct,
			consts.QDLReason, consts.QDLError, consts.QDLStartedAt, consts.QDLFinishedAt).
		From(consts.DBDownloads).
		OrderBy(consts.QDLStartedAt + " DESC").
		Limit(uint64(limit)).
		RunWith(ds.DB)

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query download history: %w", err)
	}
	defer rows.Close()

	var out []models.DownloadRecord
	for rows.Next() {
		var (
			rec        models.DownloadRecord
			phase      sql.NullString
			client     sql.NullString
			quality    sql.NullString
			reason     sql.NullString
			errText    sql.NullString
			finishedAt sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.URL, &rec.Tool, &phase, &client,
			&quality, &rec.Status, &rec.Percent, &reason, &errText,
			&rec.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		rec.Phase = phase.String
		rec.Client = client.String
		rec.Quality = quality.String
		rec.Reason = reason.String
		rec.Error = errText.String
		if finishedAt.Valid {
			rec.FinishedAt = finishedAt.Time
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
