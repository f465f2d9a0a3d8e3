package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobfit-automation/internal/apperr"
)

func TestLoad_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "resume.txt")

	r, err := Load(path)
	require.NoError(t, err)
	assert.True(t, r.IsEmpty())
	assert.FileExists(t, path)

	err = r.Require()
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindConfig))
}

func TestLoad_TrimsContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  Go engineer, 6 years  \n\n"), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Go engineer, 6 years", r.Content())
	assert.NoError(t, r.Require())
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	r, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, r.Update("  Platform engineer \n"))
	assert.Equal(t, "Platform engineer", r.Content())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Platform engineer", string(data))
}
