package data

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/mchmarny/vctl/pkg/calibrate"
	"github.com/mchmarny/vctl/pkg/score"
)

const (
	insertSampleSQL = `INSERT INTO calibration_sample
		(post_id, features, impressions, likes, replies, reposts, quotes, shares, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (post_id) DO UPDATE SET
			features = excluded.features,
			impressions = excluded.impressions,
			likes = excluded.likes,
			replies = excluded.replies,
			reposts = excluded.reposts,
			quotes = excluded.quotes,
			shares = excluded.shares
	`

	selectSamplesSQL = `SELECT post_id, features, impressions, likes, replies, reposts, quotes, shares
		FROM calibration_sample
		ORDER BY post_id
		LIMIT ?
	`

	countSamplesSQL = `SELECT COUNT(*) FROM calibration_sample`
)

// SaveSamples upserts the batch in a single transaction.
func (s *Store) SaveSamples(samples []calibrate.Sample) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(s.rebind(insertSampleSQL))
	if err != nil {
		rollback(tx)
		return errors.Wrap(err, "failed to prepare sample insert")
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	for i := range samples {
		sample := &samples[i]
		features, err := json.Marshal(sample.Features)
		if err != nil {
			rollback(tx)
			return errors.Wrapf(err, "failed to marshal features for %s", sample.PostID)
		}

		if _, err := stmt.Exec(
			sample.PostID,
			string(features),
			sample.ActualImpressions,
			sample.ActualLikes,
			sample.ActualReplies,
			sample.ActualReposts,
			nullable(sample.ActualQuotes),
			nullable(sample.ActualShares),
			now,
		); err != nil {
			rollback(tx)
			return errors.Wrapf(err, "failed to insert sample %s", sample.PostID)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// GetSamples returns up to limit stored samples in stable post-id order.
func (s *Store) GetSamples(limit int) ([]calibrate.Sample, error) {
	if s == nil || s.db == nil {
		return nil, errStoreNotInitialized
	}
	if limit <= 0 {
		limit = 10000
	}

	rows, err := s.db.Query(s.rebind(selectSamplesSQL), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query samples")
	}
	defer rows.Close()

	list := make([]calibrate.Sample, 0)
	for rows.Next() {
		var (
			sample         calibrate.Sample
			features       string
			quotes, shares sql.NullInt64
		)
		if err := rows.Scan(
			&sample.PostID,
			&features,
			&sample.ActualImpressions,
			&sample.ActualLikes,
			&sample.ActualReplies,
			&sample.ActualReposts,
			&quotes,
			&shares,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan sample row")
		}

		sample.Features = score.DefaultFeatures()
		if err := json.Unmarshal([]byte(features), &sample.Features); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal features for %s", sample.PostID)
		}
		if quotes.Valid {
			sample.ActualQuotes = &quotes.Int64
		}
		if shares.Valid {
			sample.ActualShares = &shares.Int64
		}

		list = append(list, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read sample rows")
	}

	return list, nil
}

// CountSamples returns the number of stored samples.
func (s *Store) CountSamples() (int64, error) {
	if s == nil || s.db == nil {
		return 0, errStoreNotInitialized
	}

	var count int64
	if err := s.db.QueryRow(countSamplesSQL).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count samples")
	}
	return count, nil
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Debug("error rolling back transaction", "error", err)
	}
}
