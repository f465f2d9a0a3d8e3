package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobfit-automation/internal/apperr"
)

var testSchema = Schema{
	Key:         "job_id",
	Columns:     []string{"job_id", "title", "link", "first_seen", "last_fetched", "applied", "score"},
	FirstSeen:   "first_seen",
	LastFetched: "last_fetched",
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(t *testing.T, dir string, clock *fakeClock) *Store {
	t.Helper()
	s, err := New(dir, "jobs.csv", testSchema, WithClock(clock.now))
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_CreatesFolderAndHeader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s := newTestStore(t, dir, &fakeClock{time.Now()})

	assert.Equal(t, "job_id,title,link,first_seen,last_fetched,applied,score\n", readFile(t, s.Path()))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Read(nil))
}

func TestNew_InvalidSchema(t *testing.T) {
	tests := []struct {
		name   string
		schema Schema
	}{
		{"no key", Schema{Columns: []string{"a"}}},
		{"key not declared", Schema{Key: "id", Columns: []string{"a"}}},
		{"duplicate column", Schema{Key: "a", Columns: []string{"a", "a"}}},
		{"stamp not declared", Schema{Key: "a", Columns: []string{"a"}, FirstSeen: "first_seen"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(t.TempDir(), "x.csv", tt.schema)
			require.Error(t, err)
			assert.True(t, apperr.IsKind(err, apperr.KindConfig))
		})
	}
}

func TestNew_UnwritableFolder(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := New(filepath.Join(blocker, "data"), "jobs.csv", testSchema)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))
}

func TestCreate_UpsertReplacesFields(t *testing.T) {
	clock := &fakeClock{time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	s := newTestStore(t, t.TempDir(), clock)

	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go Developer", "link": "https://x/a"}}))
	clock.t = clock.t.AddDate(0, 0, 5)
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Senior Go Developer", "link": "https://x/a2"}}))

	all := s.Read(nil)
	require.Len(t, all, 1)
	rec := all[0]
	assert.Equal(t, "Senior Go Developer", rec.String("title"))
	assert.Equal(t, "https://x/a2", rec.String("link"))
	assert.Equal(t, "2026-03-01", rec.String("first_seen"))
	assert.Equal(t, "2026-03-06", rec.String("last_fetched"))
}

func TestCreate_KeepsOmittedFields(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go"}}))
	ok, err := s.Update("A", map[string]any{"score": 80, "applied": true})
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go (remote)"}}))

	rec, found := s.GetByID("A")
	require.True(t, found)
	assert.Equal(t, "Go (remote)", rec.String("title"))
	score, ok := rec.Int("score")
	assert.True(t, ok)
	assert.Equal(t, 80, score)
	applied, ok := rec.Bool("applied")
	assert.True(t, ok)
	assert.True(t, applied)
}

func TestCreate_ExplicitNullOverwrites(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go", "link": "https://x"}}))
	require.NoError(t, s.Create([]Record{{"job_id": "A", "link": nil}}))

	rec, _ := s.GetByID("A")
	assert.True(t, rec.IsNull("link"))
	assert.Equal(t, "Go", rec.String("title"))
}

func TestCreate_DuplicatesInOneBatch(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{
		{"job_id": "A", "title": "first"},
		{"job_id": "B", "title": "other"},
		{"job_id": "A", "title": "second"},
	}))

	assert.Equal(t, 2, s.Len())
	rec, _ := s.GetByID("A")
	assert.Equal(t, "second", rec.String("title"))
}

func TestCreate_MissingIdentity(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A"}}))

	err := s.Create([]Record{{"job_id": "B"}, {"title": "no id"}})
	require.ErrorIs(t, err, ErrMissingIdentity)
	assert.Equal(t, 1, s.Len(), "a rejected batch must not be partially applied")
}

func TestCreate_EmptyIsNoop(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	before := readFile(t, s.Path())
	require.NoError(t, s.Create(nil))
	assert.Equal(t, before, readFile(t, s.Path()))
}

func TestCreate_NewColumnsAreBackFilled(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go"}}))
	require.NoError(t, s.Create([]Record{{"job_id": "B", "remote": true, "team": "core"}}))

	assert.Equal(t, []string{"job_id", "title", "link", "first_seen", "last_fetched", "applied", "score", "remote", "team"}, s.Columns())

	for _, rec := range s.Read(nil) {
		for _, col := range s.Columns() {
			_, present := rec[col]
			assert.True(t, present, "record %s missing column %s", rec.String("job_id"), col)
		}
	}
	a, _ := s.GetByID("A")
	assert.True(t, a.IsNull("remote"))

	reloaded := newTestStore(t, dir, &fakeClock{time.Now()})
	assert.Equal(t, s.Columns(), reloaded.Columns())
	b, _ := reloaded.GetByID("B")
	remote, _ := b.Bool("remote")
	assert.True(t, remote)
}

func TestRead_Filters(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{
		{"job_id": "A", "title": "Go", "applied": false},
		{"job_id": "B", "title": "Rust", "applied": true, "score": 70},
		{"job_id": "C", "title": "Go", "applied": true},
	}))

	tests := []struct {
		name    string
		filters map[string]any
		want    []string
	}{
		{"no filters", nil, []string{"A", "B", "C"}},
		{"single", map[string]any{"title": "Go"}, []string{"A", "C"}},
		{"conjunction", map[string]any{"title": "Go", "applied": true}, []string{"C"}},
		{"null match", map[string]any{"score": nil}, []string{"A", "C"}},
		{"number", map[string]any{"score": 70}, []string{"B"}},
		{"unknown column ignored", map[string]any{"salary_band": "x", "title": "Rust"}, []string{"B"}},
		{"no match", map[string]any{"title": "Java"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, rec := range s.Read(tt.filters) {
				got = append(got, rec.String("job_id"))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_ReturnsCopies(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go"}}))

	recs := s.Read(nil)
	recs[0]["title"] = "mutated"
	byID, _ := s.GetByID("A")
	byID["title"] = "mutated too"

	rec, _ := s.GetByID("A")
	assert.Equal(t, "Go", rec.String("title"))
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "title": "Go"}}))

	t.Run("not found leaves collection unchanged", func(t *testing.T) {
		before := readFile(t, s.Path())
		ok, err := s.Update("missing", map[string]any{"title": "x"})
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, before, readFile(t, s.Path()))
		assert.Equal(t, 1, s.Len())
	})

	t.Run("unknown field fails without mutation", func(t *testing.T) {
		ok, err := s.Update("A", map[string]any{"title": "changed", "bogus": 1})
		assert.ErrorIs(t, err, ErrUnknownColumn)
		assert.False(t, ok)
		rec, _ := s.GetByID("A")
		assert.Equal(t, "Go", rec.String("title"))
	})

	t.Run("identity cannot change", func(t *testing.T) {
		_, err := s.Update("A", map[string]any{"job_id": "Z"})
		assert.ErrorIs(t, err, ErrIdentityChange)
	})

	t.Run("applies and persists", func(t *testing.T) {
		ok, err := s.Update("A", map[string]any{"score": 91.5, "applied": true})
		require.NoError(t, err)
		assert.True(t, ok)

		reloaded, err := New(filepath.Dir(s.Path()), "jobs.csv", testSchema)
		require.NoError(t, err)
		rec, found := reloaded.GetByID("A")
		require.True(t, found)
		score, _ := rec.Float("score")
		assert.Equal(t, 91.5, score)
		assert.Equal(t, "true", rec.String("applied"))
	})
}

func TestDeleteAndGetByID(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A"}, {"job_id": "B"}, {"job_id": 3}}))

	ok, err := s.Delete("A")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete("A")
	require.NoError(t, err)
	assert.False(t, ok)

	_, found := s.GetByID("A")
	assert.False(t, found)
	_, found = s.GetByID(nil)
	assert.False(t, found)

	rec, found := s.GetByID("B")
	require.True(t, found)
	assert.Equal(t, "B", rec.String("job_id"))

	rec, found = s.GetByID(3)
	require.True(t, found)
	assert.Equal(t, "3", rec.String("job_id"))
}

func TestClearKeepsHeader(t *testing.T) {
	s := newTestStore(t, t.TempDir(), &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A", "extra": "x"}}))

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "job_id,title,link,first_seen,last_fetched,applied,score\n", readFile(t, s.Path()))
}

func TestResetWritesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, &fakeClock{time.Now()})
	require.NoError(t, s.Create([]Record{{"job_id": "A"}}))

	require.NoError(t, s.Reset())
	assert.Equal(t, "", readFile(t, s.Path()))
	assert.Equal(t, 0, s.Len())

	reloaded := newTestStore(t, dir, &fakeClock{time.Now()})
	assert.Equal(t, testSchema.Columns, reloaded.Columns())
	assert.Empty(t, reloaded.Read(nil))
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, &fakeClock{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, s.Create([]Record{
		{"job_id": "A", "title": `Go, "cloud" engineer`, "score": 77},
		{"job_id": "B", "title": "Multi\nline", "applied": false},
		{"job_id": "C", "title": " leading space", "score": 12.25},
		{"job_id": "D", "title": "line1\r\nline2\rline3"},
	}))
	first := readFile(t, s.Path())

	d, _ := s.GetByID("D")
	assert.Equal(t, "line1\nline2\nline3", d.String("title"))

	loaded := newTestStore(t, dir, &fakeClock{time.Now()})
	require.NoError(t, loaded.save())
	assert.Equal(t, first, readFile(t, s.Path()))
	assert.Equal(t, 4, loaded.Len())

	d, _ = loaded.GetByID("D")
	assert.Equal(t, "line1\nline2\nline3", d.String("title"))

	b, _ := loaded.GetByID("B")
	assert.Equal(t, "Multi\nline", b.String("title"))
	a, _ := loaded.GetByID("A")
	assert.Equal(t, `Go, "cloud" engineer`, a.String("title"))
}

func TestLoad_ToleratesShortRowsAndMissingDeclaredColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte("job_id,title,legacy\nA,Go\nB,Rust,x\n"), 0644))

	s := newTestStore(t, dir, &fakeClock{time.Now()})
	assert.Equal(t, []string{"job_id", "title", "link", "first_seen", "last_fetched", "applied", "score", "legacy"}, s.Columns())

	a, found := s.GetByID("A")
	require.True(t, found)
	assert.True(t, a.IsNull("legacy"))
	assert.True(t, a.IsNull("score"))
	b, _ := s.GetByID("B")
	assert.Equal(t, "x", b.String("legacy"))
}

func TestLoad_RejectsOverlongRows(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs.csv"), []byte("job_id\nA,extra\n"), 0644))

	_, err := New(dir, "jobs.csv", testSchema)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))
}

func TestSave_FailurePropagates(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir, &fakeClock{time.Now()})
	require.NoError(t, os.RemoveAll(dir))

	err := s.Create([]Record{{"job_id": "A"}})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStorage))
}
