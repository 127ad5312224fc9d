package main

import (
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketRuns = "runs"

// history keeps the average time of the last run of every scenario.
type history struct {
	db *bolt.DB
}

func openHistory(path string) (*history, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &history{db: db}, nil
}

// previous returns the recorded averages of the named scenarios. Scenarios
// that never ran are missing from the map.
func (h *history) previous(names []string) (map[string]time.Duration, error) {
	prev := make(map[string]time.Duration, len(names))
	err := h.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		for _, name := range names {
			if v := b.Get([]byte(name)); v != nil {
				prev[name] = time.Duration(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return prev, err
}

func (h *history) record(results []result) error {
	return h.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRuns))
		for _, res := range results {
			v := make([]byte, 8)
			binary.BigEndian.PutUint64(v, uint64(res.Metrics.Time.Avg))
			if err := b.Put([]byte(res.Name), v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *history) Close() error {
	return h.db.Close()
}
