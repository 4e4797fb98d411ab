// Package store provides the persistent row store used by the sequence
// editor. Rows live in a local BoltDB file; each row has a stable sequence
// number, a user-visible key and a text payload. Row order is explicit and
// survives restarts.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/weftui/weft/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

// Row is one stored row.
type Row struct {
	// Seq is the sequence number, allocated at AddRow time and stable for
	// the lifetime of the row. Moving a row does not change its Seq.
	Seq int `json:"seq"`
	// Key is the user-visible identity of the row.
	Key string `json:"key"`
	// Text is the payload.
	Text string `json:"text"`
}

// Store is the interface for accessing rows.
type Store interface {
	// NextRowSeq returns the sequence number the next AddRow will get.
	NextRowSeq() (int, error)
	// AddRow appends a new row and returns its sequence number.
	AddRow(key, text string) (int, error)
	// SetRow replaces the text of the row with the given sequence number.
	SetRow(seq int, text string) error
	// DelRow removes the row with the given sequence number.
	DelRow(seq int) error
	// Row returns the row with the given sequence number.
	Row(seq int) (Row, error)
	// Rows returns all rows in display order.
	Rows() ([]Row, error)
	// MoveRow moves a row delta positions within the display order;
	// negative delta moves towards the front. The move clamps at either
	// end instead of failing.
	MoveRow(seq, delta int) error
	// ExportJSON writes all rows, in display order, as indented JSON to
	// the file at the given path. The file is replaced atomically.
	ExportJSON(path string) error
}

// DBStore is a Store backed by a database file.
type DBStore interface {
	Store
	Close() error
}

// Functions to run when initializing a fresh database, populated by init
// functions of the files that own each bucket. Keyed by a short description
// used in the error message when one fails.
var initDB = map[string]func(*bolt.Tx) error{}

type dbStore struct {
	db *bolt.DB
}

// NewStore opens a Store backed by the database file at the given path,
// creating the file if it does not exist. The open call times out instead of
// blocking forever when another process holds the file lock.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0o644, &bolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, err
	}
	logger.Println("opened database", dbname)
	st := &dbStore{db}
	if err := st.init(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func (s *dbStore) init() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			if err := fn(tx); err != nil {
				return fmt.Errorf("failed to %s: %v", name, err)
			}
		}
		return nil
	})
}

func (s *dbStore) Close() error {
	return s.db.Close()
}

func marshalRow(r Row) ([]byte, error)       { return json.Marshal(r) }
func unmarshalRow(v []byte) (r Row, e error) { e = json.Unmarshal(v, &r); return }

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

