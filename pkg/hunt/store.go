package hunt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Recorder persists finished hunt reports.
type Recorder interface {
	Record(report *Report) error
	Recent(limit int) ([]*Report, error)
}

// NopRecorder discards reports.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(*Report) error { return nil }

// Recent implements Recorder.
func (NopRecorder) Recent(int) ([]*Report, error) { return nil, nil }

const reportBucket = "reports"

// BoltRecorder is a bbolt-backed Recorder. Reports are keyed by their
// finish timestamp, so iteration order is chronological.
type BoltRecorder struct {
	db *bolt.DB
}

// NewBoltRecorder opens (or creates) the report store at path.
func NewBoltRecorder(path string) (*BoltRecorder, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(reportBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init report store: %w", err)
	}
	return &BoltRecorder{db: db}, nil
}

// Record implements Recorder.
func (r *BoltRecorder) Record(report *Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	key := report.FinishedAt
	if key.IsZero() {
		key = time.Now()
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportBucket)).Put([]byte(key.Format(time.RFC3339Nano)), data)
	})
}

// Recent implements Recorder, returning up to limit reports, newest first.
func (r *BoltRecorder) Recent(limit int) ([]*Report, error) {
	if limit <= 0 {
		limit = 10
	}

	var reports []*Report
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(reportBucket)).Cursor()
		for k, v := c.Last(); k != nil && len(reports) < limit; k, v = c.Prev() {
			var report Report
			if err := json.Unmarshal(v, &report); err != nil {
				return fmt.Errorf("unmarshal report %s: %w", string(k), err)
			}
			reports = append(reports, &report)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// Close releases the underlying database.
func (r *BoltRecorder) Close() error { return r.db.Close() }
