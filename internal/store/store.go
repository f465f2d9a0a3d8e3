// Package store keeps one collection of records in a flat CSV file.
//
// A Store is loaded fully into memory on construction and rewritten in full on
// every mutation. It is meant for one process writing at a time; nothing
// coordinates two processes sharing the same file.
package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go-jobfit-automation/internal/apperr"
)

var (
	ErrUnknownColumn   = errors.New("unknown column")
	ErrMissingIdentity = errors.New("record has no identity value")
	ErrIdentityChange  = errors.New("identity column cannot be updated")
)

const DefaultDateLayout = "2006-01-02"

type Store struct {
	path       string
	schema     Schema
	cols       *columnSet
	rows       []Record
	byID       map[string]int
	now        func() time.Time
	dateLayout string
}

type Option func(*Store)

// WithClock replaces time.Now for the first_seen/last_fetched stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithDateLayout(layout string) Option {
	return func(s *Store) { s.dateLayout = layout }
}

// New opens the collection stored at folder/file, creating the folder and a
// header-only file when they do not exist yet.
func New(folder, file string, schema Schema, opts ...Option) (*Store, error) {
	if err := schema.validate(); err != nil {
		return nil, apperr.Config("invalid store schema", err)
	}

	s := &Store{
		path:       filepath.Join(folder, file),
		schema:     schema,
		now:        time.Now,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return nil, apperr.Storage("create data folder "+folder, err)
	}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		s.cols = newColumnSet(schema.Columns...)
		s.rows = nil
		s.reindex()
		if err := s.save(); err != nil {
			return nil, err
		}
		log.Printf("📄 Created %s", s.path)
		return s, nil
	} else if err != nil {
		return nil, apperr.Storage("stat "+s.path, err)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Schema() Schema {
	return s.schema
}

// Columns returns the current column order: declared columns, then observed ones.
func (s *Store) Columns() []string {
	return s.cols.list()
}

// HasColumn reports whether col is currently a column of the collection.
func (s *Store) HasColumn(col string) bool {
	return s.cols.has(col)
}

func (s *Store) Len() int {
	return len(s.rows)
}

func (s *Store) load() error {
	header, rows, err := readTable(s.path)
	if err != nil {
		return apperr.Storage("load "+s.path, err)
	}
	s.cols = newColumnSet(s.schema.Columns...)
	s.cols.add(header...)
	s.rows = make([]Record, 0, len(rows))
	for _, rec := range rows {
		s.cols.reconcile(rec)
		s.rows = append(s.rows, rec)
	}
	s.reindex()
	return nil
}

// reindex rebuilds the identity index. Rows loaded from a file written by
// another tool may repeat an identity; the first occurrence wins lookups.
func (s *Store) reindex() {
	s.byID = make(map[string]int, len(s.rows))
	for i, rec := range s.rows {
		id, ok := rec.Get(s.schema.Key)
		if !ok {
			continue
		}
		if _, dup := s.byID[id]; !dup {
			s.byID[id] = i
		}
	}
}

func (s *Store) save() error {
	var header []string
	if s.cols != nil {
		header = s.cols.list()
	}
	if err := writeTable(s.path, header, s.rows); err != nil {
		return apperr.Storage("write "+s.path, err)
	}
	return nil
}

func (s *Store) today() string {
	return s.now().Format(s.dateLayout)
}

// Create upserts records by identity and persists the collection once.
// Fields present on an incoming record replace the stored ones; fields it
// omits keep their stored values, so a re-fetch that only carries posting
// columns leaves score and analysis written by the scorer in place. The
// first_seen stamp of an existing record is never overwritten.
func (s *Store) Create(records []Record) error {
	if len(records) == 0 {
		return nil
	}

	incoming := make([]Record, 0, len(records))
	for i, rec := range records {
		n := normalize(rec)
		if n.IsNull(s.schema.Key) {
			return fmt.Errorf("record %d: %w", i, ErrMissingIdentity)
		}
		incoming = append(incoming, n)
	}

	today := s.today()
	for _, rec := range incoming {
		cols := make([]string, 0, len(rec))
		for col := range rec {
			cols = append(cols, col)
		}
		slices.Sort(cols)
		for _, col := range s.cols.add(cols...) {
			for _, row := range s.rows {
				row[col] = nil
			}
		}

		id := rec.String(s.schema.Key)
		if idx, ok := s.byID[id]; ok {
			row := s.rows[idx]
			firstSeen := row[s.schema.FirstSeen]
			for col, v := range rec {
				row[col] = v
			}
			if s.schema.FirstSeen != "" && firstSeen != nil {
				row[s.schema.FirstSeen] = firstSeen
			}
			s.stamp(row, today)
			continue
		}

		s.cols.reconcile(rec)
		s.stamp(rec, today)
		s.rows = append(s.rows, rec)
		s.byID[id] = len(s.rows) - 1
	}

	return s.save()
}

func (s *Store) stamp(row Record, today string) {
	if s.schema.FirstSeen != "" && row[s.schema.FirstSeen] == nil {
		row[s.schema.FirstSeen] = today
	}
	if s.schema.LastFetched != "" {
		row[s.schema.LastFetched] = today
	}
}

// Read returns copies of the records matching every filter by exact cell
// equality. A nil filter value matches null cells. Filters naming a column the
// collection does not have are ignored.
func (s *Store) Read(filters map[string]any) []Record {
	type cond struct {
		col  string
		text string
		null bool
	}
	var conds []cond
	for col, v := range filters {
		if !s.cols.has(col) {
			continue
		}
		text, null := cellText(v)
		conds = append(conds, cond{col: col, text: text, null: null})
	}

	out := make([]Record, 0, len(s.rows))
	for _, row := range s.rows {
		match := true
		for _, c := range conds {
			got, ok := row.Get(c.col)
			if c.null {
				match = !ok
			} else {
				match = ok && got == c.text
			}
			if !match {
				break
			}
		}
		if match {
			out = append(out, row.Clone())
		}
	}
	return out
}

// GetByID returns a copy of the record with the given identity.
func (s *Store) GetByID(id any) (Record, bool) {
	idx, ok := s.indexOf(id)
	if !ok {
		return nil, false
	}
	return s.rows[idx].Clone(), true
}

func (s *Store) indexOf(id any) (int, bool) {
	key, null := cellText(id)
	if null {
		return 0, false
	}
	idx, ok := s.byID[key]
	return idx, ok
}

// Update sets fields on the record with the given identity and persists.
// It returns false with a nil error when no such record exists. Fields that
// are not columns of the collection fail the whole update with ErrUnknownColumn.
func (s *Store) Update(id any, fields map[string]any) (bool, error) {
	for col, v := range fields {
		if !s.cols.has(col) {
			return false, fmt.Errorf("update %v: %w: %q", id, ErrUnknownColumn, col)
		}
		if col == s.schema.Key {
			key, _ := cellText(id)
			if text, _ := cellText(v); text != key {
				return false, fmt.Errorf("update %v: %w", id, ErrIdentityChange)
			}
		}
	}

	idx, ok := s.indexOf(id)
	if !ok {
		return false, nil
	}

	row := s.rows[idx]
	for col, v := range normalize(fields) {
		row[col] = v
	}
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record with the given identity. It returns false with a
// nil error when no such record exists.
func (s *Store) Delete(id any) (bool, error) {
	idx, ok := s.indexOf(id)
	if !ok {
		return false, nil
	}
	s.rows = append(s.rows[:idx], s.rows[idx+1:]...)
	s.reindex()
	if err := s.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Clear drops every record and keeps the declared header on disk.
func (s *Store) Clear() error {
	s.cols = newColumnSet(s.schema.Columns...)
	s.rows = nil
	s.reindex()
	return s.save()
}

// Reset drops every record and writes an empty file with no header.
// The declared columns come back on the next mutation or load.
func (s *Store) Reset() error {
	s.cols = nil
	s.rows = nil
	s.reindex()
	if err := s.save(); err != nil {
		return err
	}
	s.cols = newColumnSet(s.schema.Columns...)
	return nil
}
