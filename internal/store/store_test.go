package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readvideo/internal/model"
)

func TestWriteBytes_AtomicReplaceLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.json")

	if err := WriteBytes(path, []byte("one")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteBytes(path, []byte("two")); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "two" {
		t.Fatalf("expected full rewrite, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".readvideo-tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}

func TestOpenStatus_FirstRunIsEmpty(t *testing.T) {
	s, err := OpenStatus(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := s.Record()
	if len(rec.Completed)+len(rec.Failed)+len(rec.Skipped) != 0 {
		t.Fatalf("expected empty record, got %+v", rec)
	}
}

func TestStatusStore_PersistsAfterEveryMark(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStatus(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.MarkCompleted("v1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}
	if err := s.MarkFailed("v2"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// A fresh open simulates a crash after the last durable write.
	reopened, err := OpenStatus(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !reopened.IsCompleted("v1") || !reopened.IsFailed("v2") {
		t.Fatalf("record not durable: %+v", reopened.Record())
	}
	rec := reopened.Record()
	if rec.LastUpdate == "" {
		t.Fatalf("expected last_update to be stamped")
	}
}

func TestStatusStore_RetrySuccessMovesFailedToCompleted(t *testing.T) {
	dir := t.TempDir()
	s, err := OpenStatus(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.MarkFailed("v1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := s.MarkCompleted("v1"); err != nil {
		t.Fatalf("mark completed: %v", err)
	}

	reopened, err := OpenStatus(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	rec := reopened.Record()
	if !reopened.IsCompleted("v1") || len(rec.Failed) != 0 {
		t.Fatalf("expected v1 completed only, got %+v", rec)
	}
}

func TestOpenStatus_NormalizesHandEditedFile(t *testing.T) {
	dir := t.TempDir()
	raw := `{"completed":["a","a"],"failed":["a","b"],"skipped":["b","c"]}`
	if err := os.WriteFile(StatusPath(dir), []byte(raw), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	s, err := OpenStatus(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := s.Record()
	if !s.IsCompleted("a") || s.IsFailed("a") {
		t.Fatalf("completed must win: %+v", rec)
	}
	if !s.IsFailed("b") || len(rec.Skipped) != 1 || rec.Skipped[0] != "c" {
		t.Fatalf("failed must win over skipped: %+v", rec)
	}
}

func TestCatalogSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	target := model.TargetInfo{Platform: "youtube", Identifier: "@chan", DisplayName: "@chan"}
	items := []model.ContentItem{
		{ID: "v1", Title: "first", UploadDate: "2023-01-05"},
		{ID: "v2", Title: "second", UploadDate: "2023-02-05"},
	}
	if err := SaveCatalogSnapshot(dir, target, items); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := LoadCatalogSnapshot(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.TotalItems != 2 || snap.Target.Identifier != "@chan" || snap.GeneratedAt == "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Items[0].ID != "v1" || snap.Items[1].ID != "v2" {
		t.Fatalf("item order not preserved: %+v", snap.Items)
	}
}

func TestAcquireTargetLock_SecondAcquireFails(t *testing.T) {
	dir := t.TempDir()
	lock, err := AcquireTargetLock(dir)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if _, err := AcquireTargetLock(dir); err == nil {
		t.Fatalf("expected second acquire to fail")
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	relock, err := AcquireTargetLock(dir)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	_ = relock.Release()
}

func TestListTargetDirs_FindsOnlyTargetDirs(t *testing.T) {
	root := t.TempDir()
	withStatus := filepath.Join(root, "youtube_@a")
	withCatalog := filepath.Join(root, "bilibili_123")
	plain := filepath.Join(root, "notes")
	for _, d := range []string{withStatus, withCatalog, plain} {
		if err := Mkdir(d); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if _, err := OpenStatus(withStatus); err != nil {
		t.Fatalf("open status: %v", err)
	}
	s, _ := OpenStatus(withStatus)
	if err := s.MarkCompleted("x"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := SaveCatalogSnapshot(withCatalog, model.TargetInfo{Platform: "bilibili"}, nil); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	dirs, err := ListTargetDirs(root)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 target dirs, got %v", dirs)
	}
}
