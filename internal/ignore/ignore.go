// Package ignore tracks message identifiers that were already handled,
// persisted as a single-column CSV file so the state survives restarts
// and stays editable by hand.
package ignore

import (
	"encoding/csv"
	"fmt"
	"os"
)

const header = "msg_id"

// List is an in-memory set of message identifiers backed by a CSV file.
// It is not safe for concurrent use.
type List struct {
	path string
	ids  map[string]struct{}
}

// Load reads the list at path. A missing file yields an empty list and
// is not an error; the file is created on the first Add.
func Load(path string) (*List, error) {
	l := &List{
		path: path,
		ids:  make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("failed to open ignore list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ignore list: %w", err)
	}

	for i, record := range records {
		if i == 0 && record[0] == header {
			continue
		}
		l.ids[record[0]] = struct{}{}
	}
	return l, nil
}

// Contains reports whether id was previously added.
func (l *List) Contains(id string) bool {
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of tracked identifiers.
func (l *List) Len() int {
	return len(l.ids)
}

// Add records id and appends it to the backing file. Adding an id that
// is already present is a no-op.
func (l *List) Add(id string) error {
	if l.Contains(id) {
		return nil
	}

	writeHeader := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		writeHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open ignore list for writing: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{header}); err != nil {
			return fmt.Errorf("failed to write ignore list header: %w", err)
		}
	}
	if err := w.Write([]string{id}); err != nil {
		return fmt.Errorf("failed to write ignore list entry: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush ignore list: %w", err)
	}

	l.ids[id] = struct{}{}
	return nil
}
