package store

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Schema describes one collection type: its identity column and the columns
// every record is guaranteed to carry.
type Schema struct {
	Key     string
	Columns []string

	// FirstSeen and LastFetched name the date columns stamped by Create.
	// Either may be empty to disable the stamp.
	FirstSeen   string
	LastFetched string
}

func (s Schema) validate() error {
	if s.Key == "" {
		return errors.New("schema: identity key is required")
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, col := range s.Columns {
		if col == "" {
			return errors.New("schema: empty column name")
		}
		if !seen.Add(col) {
			return fmt.Errorf("schema: duplicate column %q", col)
		}
	}
	for _, col := range []string{s.Key, s.FirstSeen, s.LastFetched} {
		if col != "" && !seen.Contains(col) {
			return fmt.Errorf("schema: column %q is not declared", col)
		}
	}
	return nil
}

// columnSet tracks the ordered column list of a loaded collection: the declared
// columns first, then any column observed in data, in order of first sight.
type columnSet struct {
	order []string
	index mapset.Set[string]
}

func newColumnSet(cols ...string) *columnSet {
	cs := &columnSet{index: mapset.NewThreadUnsafeSet[string]()}
	cs.add(cols...)
	return cs
}

// add appends unseen columns and returns the ones that were new.
func (cs *columnSet) add(cols ...string) []string {
	var added []string
	for _, col := range cols {
		if col == "" || cs.index.Contains(col) {
			continue
		}
		cs.index.Add(col)
		cs.order = append(cs.order, col)
		added = append(added, col)
	}
	return added
}

func (cs *columnSet) has(col string) bool {
	return cs.index.Contains(col)
}

func (cs *columnSet) list() []string {
	out := make([]string, len(cs.order))
	copy(out, cs.order)
	return out
}

// reconcile gives rec a (possibly null) value for every column in cs.
func (cs *columnSet) reconcile(rec Record) {
	for _, col := range cs.order {
		if _, ok := rec[col]; !ok {
			rec[col] = nil
		}
	}
}
