package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"readvideo/internal/model"
)

const statusFileName = "processing_status.json"

// StatusStore exclusively owns the processing status record for one
// target directory. Every mark operation persists before returning, so a
// crash loses at most the in-flight item's outcome.
type StatusStore struct {
	dir string
	rec *model.StatusRecord
	now func() time.Time
}

func StatusPath(targetDir string) string {
	return filepath.Join(targetDir, statusFileName)
}

// OpenStatus loads the record for targetDir, creating an empty one on
// first run. Records from older runs are normalized on load so the
// disjointness invariant holds even against a hand-edited file.
func OpenStatus(targetDir string) (*StatusStore, error) {
	if strings.TrimSpace(targetDir) == "" {
		return nil, fmt.Errorf("target directory is required")
	}
	rec := model.NewStatusRecord()
	path := StatusPath(targetDir)
	if _, err := os.Stat(path); err == nil {
		if err := ReadJSON(path, rec); err != nil {
			return nil, err
		}
		rec.Normalize()
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat status file %s: %w", path, err)
	}
	return &StatusStore{dir: targetDir, rec: rec, now: time.Now}, nil
}

func (s *StatusStore) IsCompleted(id string) bool { return s.rec.IsCompleted(id) }
func (s *StatusStore) IsFailed(id string) bool    { return s.rec.IsFailed(id) }
func (s *StatusStore) IsSkipped(id string) bool   { return s.rec.IsSkipped(id) }

func (s *StatusStore) MarkCompleted(id string) error {
	s.rec.MarkCompleted(id)
	return s.save()
}

func (s *StatusStore) MarkFailed(id string) error {
	s.rec.MarkFailed(id)
	return s.save()
}

func (s *StatusStore) MarkSkipped(id string) error {
	s.rec.MarkSkipped(id)
	return s.save()
}

// Record returns a copy for reporting; the store keeps sole ownership of
// the mutable state.
func (s *StatusStore) Record() model.StatusRecord {
	out := *s.rec
	out.Completed = append([]string(nil), s.rec.Completed...)
	out.Failed = append([]string(nil), s.rec.Failed...)
	out.Skipped = append([]string(nil), s.rec.Skipped...)
	return out
}

func (s *StatusStore) save() error {
	s.rec.Normalize()
	s.rec.LastUpdate = s.now().UTC().Format(time.RFC3339)
	if err := WriteJSON(StatusPath(s.dir), s.rec); err != nil {
		return fmt.Errorf("persist status record: %w", err)
	}
	return nil
}
