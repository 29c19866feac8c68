// Package history persists a record of every published clipboard change so
// it can be listed later. Payloads are not stored in full: text is truncated
// to a short preview and images are recorded by their dimensions only, which
// keeps the database small and avoids hoarding sensitive clipboard content.
package history

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/undefined-moe/ClipboardQRReader/internal/snapshot"
)

const (
	bucketName = "published"

	// previewLen bounds the stored text preview, matching what the watch
	// command prints.
	previewLen = 120
)

// Entry is one recorded clipboard change.
type Entry struct {
	Time          time.Time `json:"time"`
	Kind          string    `json:"kind"`
	Preview       string    `json:"preview,omitempty"`
	Width         uint32    `json:"width,omitempty"`
	Height        uint32    `json:"height,omitempty"`
	Decode        string    `json:"decode,omitempty"`
	DecodeMessage string    `json:"decode_message,omitempty"`
}

// Store is a bbolt-backed append-only log of published snapshots.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends one published snapshot. Called from the watcher goroutine
// after each publish; failures are the caller's to log, never fatal.
func (s *Store) Record(snap snapshot.Snapshot, st snapshot.DecodeStatus) error {
	e := Entry{
		Time: time.Now(),
		Kind: snap.Kind().String(),
	}
	switch snap.Kind() {
	case snapshot.KindText:
		e.Preview = truncate(snap.Text(), previewLen)
	case snapshot.KindImage:
		e.Width, e.Height = snap.ImageSize()
	}
	if st.Outcome != snapshot.DecodeNotAttempted {
		e.Decode = st.Outcome.String()
		e.DecodeMessage = st.Message
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		val, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return b.Put(key, val)
	})
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("corrupt history entry: %w", err)
			}
			out = append(out, e)
		}
		return nil
	})
	return out, err
}

func (s *Store) Close() error { return s.db.Close() }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
