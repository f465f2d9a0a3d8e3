package resume

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go-jobfit-automation/internal/apperr"
)

// Resume is the plain-text résumé the scorer compares jobs against.
type Resume struct {
	path    string
	content string
}

// Load reads the résumé at path. A missing file is created empty (with its
// folder) so the user has a place to paste the text.
func Load(path string) (*Resume, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, apperr.Storage("create resume folder", err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			return nil, apperr.Storage("create resume file", err)
		}
		log.Printf("⚠️ Created empty resume file at %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Storage("read resume "+path, err)
	}
	return &Resume{path: path, content: strings.TrimSpace(string(data))}, nil
}

func (r *Resume) Path() string {
	return r.path
}

func (r *Resume) Content() string {
	return r.content
}

func (r *Resume) IsEmpty() bool {
	return r.content == ""
}

// Require returns a CONFIG error when there is nothing to score against.
func (r *Resume) Require() error {
	if r.IsEmpty() {
		return apperr.Config(fmt.Sprintf("resume file %s is empty", r.path), nil)
	}
	return nil
}

func (r *Resume) Update(content string) error {
	content = strings.TrimSpace(content)
	if err := os.WriteFile(r.path, []byte(content), 0644); err != nil {
		return apperr.Storage("write resume "+r.path, err)
	}
	r.content = content
	log.Printf("✅ Resume updated at %s", r.path)
	return nil
}
