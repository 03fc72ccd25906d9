package relocate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/packlane/catalog-splitter/internal/config"
)

// ErrNoJournal is returned when no journal entry exists.
var ErrNoJournal = errors.New("no relocation journal found")

// Entry records the sources copied during a pass, written before the delete
// phase so an interrupted run can be inspected or swept on the next pass.
type Entry struct {
	BuildID   string    `json:"build_id"`
	Sources   []string  `json:"sources"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Journal persists the copy record for the current pass to a local file.
type Journal struct {
	path string
}

// NewJournal creates a journal under the configured directory, or returns
// nil when journaling is disabled.
func NewJournal(cfg config.JournalConfig) (*Journal, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal directory %s: %w", cfg.Dir, err)
	}
	return &Journal{path: filepath.Join(cfg.Dir, "relocation.json")}, nil
}

// Record writes the copy record atomically (temp file + rename).
func (j *Journal) Record(buildID string, sources []string) error {
	entry := Entry{
		BuildID:   buildID,
		Sources:   sources,
		UpdatedAt: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal journal: %w", err)
	}

	tempPath := j.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("write journal temp %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, j.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("rename journal %s: %w", tempPath, err)
	}
	return nil
}

// Load reads the journal left by a previous pass.
func (j *Journal) Load() (*Entry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoJournal
		}
		return nil, fmt.Errorf("read journal %s: %w", j.path, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parse journal %s: %w", j.path, err)
	}
	return &entry, nil
}

// Clear removes the journal after a fully committed pass.
func (j *Journal) Clear() error {
	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Sweep deletes leftover sources from an interrupted previous pass. Every
// planned copy was already on disk when the journal was written, so removing
// the recorded sources is safe.
func (j *Journal) Sweep() (int, error) {
	entry, err := j.Load()
	if err != nil {
		if errors.Is(err, ErrNoJournal) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, src := range entry.Sources {
		if err := os.Remove(src); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, fmt.Errorf("sweep %s: %w", src, err)
		}
		removed++
	}

	return removed, j.Clear()
}
