package store

import (
	"encoding/json"
	"errors"
	"slices"

	bolt "go.etcd.io/bbolt"
)

// ErrNoSuchRow is returned when an operation refers to a sequence number
// that no stored row has.
var ErrNoSuchRow = errors.New("no row with this sequence number")

const (
	bucketRow      = "row"
	bucketRowOrder = "rowOrder"
	keyOrder       = "order"
)

func init() {
	initDB["initialize row table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRow))
		return err
	}
	initDB["initialize row order table"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRowOrder))
		return err
	}
}

func (s *dbStore) NextRowSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketRow)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

func (s *dbStore) AddRow(key, text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRow))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		v, err := marshalRow(Row{Seq: int(seq), Key: key, Text: text})
		if err != nil {
			return err
		}
		if err := b.Put(marshalSeq(seq), v); err != nil {
			return err
		}
		order, err := readOrder(tx)
		if err != nil {
			return err
		}
		return writeOrder(tx, append(order, int(seq)))
	})
	return int(seq), err
}

func (s *dbStore) SetRow(seq int, text string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRow))
		k := marshalSeq(uint64(seq))
		v := b.Get(k)
		if v == nil {
			return ErrNoSuchRow
		}
		row, err := unmarshalRow(v)
		if err != nil {
			return err
		}
		row.Text = text
		v, err = marshalRow(row)
		if err != nil {
			return err
		}
		return b.Put(k, v)
	})
}

func (s *dbStore) DelRow(seq int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRow))
		k := marshalSeq(uint64(seq))
		if b.Get(k) == nil {
			return ErrNoSuchRow
		}
		if err := b.Delete(k); err != nil {
			return err
		}
		order, err := readOrder(tx)
		if err != nil {
			return err
		}
		if i := slices.Index(order, seq); i != -1 {
			order = slices.Delete(order, i, i+1)
		}
		return writeOrder(tx, order)
	})
}

func (s *dbStore) Row(seq int) (Row, error) {
	var row Row
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketRow)).Get(marshalSeq(uint64(seq)))
		if v == nil {
			return ErrNoSuchRow
		}
		var err error
		row, err = unmarshalRow(v)
		return err
	})
	return row, err
}

func (s *dbStore) Rows() ([]Row, error) {
	var rows []Row
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketRow))
		order, err := readOrder(tx)
		if err != nil {
			return err
		}
		for _, seq := range order {
			v := b.Get(marshalSeq(uint64(seq)))
			if v == nil {
				// Order entry whose row is gone; tolerate it.
				continue
			}
			row, err := unmarshalRow(v)
			if err != nil {
				return err
			}
			rows = append(rows, row)
		}
		return nil
	})
	return rows, err
}

func (s *dbStore) MoveRow(seq, delta int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		order, err := readOrder(tx)
		if err != nil {
			return err
		}
		i := slices.Index(order, seq)
		if i == -1 {
			return ErrNoSuchRow
		}
		j := min(max(i+delta, 0), len(order)-1)
		for ; i < j; i++ {
			order[i], order[i+1] = order[i+1], order[i]
		}
		for ; i > j; i-- {
			order[i], order[i-1] = order[i-1], order[i]
		}
		return writeOrder(tx, order)
	})
}

// The display order is a single JSON-encoded list of sequence numbers.

func readOrder(tx *bolt.Tx) ([]int, error) {
	v := tx.Bucket([]byte(bucketRowOrder)).Get([]byte(keyOrder))
	if v == nil {
		return nil, nil
	}
	var order []int
	err := json.Unmarshal(v, &order)
	return order, err
}

func writeOrder(tx *bolt.Tx, order []int) error {
	v, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return tx.Bucket([]byte(bucketRowOrder)).Put([]byte(keyOrder), v)
}
