package store

import (
	"bytes"
	"encoding/json"

	"github.com/natefinch/atomic"
)

func (s *dbStore) ExportJSON(path string) error {
	rows, err := s.Rows()
	if err != nil {
		return err
	}
	if rows == nil {
		// Export an empty list, not null.
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return atomic.WriteFile(path, bytes.NewReader(data))
}
