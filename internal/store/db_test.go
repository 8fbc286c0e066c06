package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rcbar.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "rcbar.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("", nil); err == nil {
		t.Error("Open(\"\") should fail")
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rcbar.db")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.SaveRemotes(context.Background(), []string{"gdrive"}, map[string]string{"gdrive": "drive"}); err != nil {
		t.Fatalf("SaveRemotes() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path, nil)
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer s.Close()

	snap, err := s.LoadRemotes(context.Background())
	if err != nil {
		t.Fatalf("LoadRemotes() error = %v", err)
	}
	if len(snap.Names) != 1 || snap.Names[0] != "gdrive" {
		t.Errorf("Names = %v, want [gdrive]", snap.Names)
	}
}

func TestStore_EmptySnapshot(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	snap, err := s.LoadRemotes(context.Background())
	if err != nil {
		t.Fatalf("LoadRemotes() error = %v", err)
	}
	if len(snap.Names) != 0 {
		t.Errorf("Names = %v, want empty", snap.Names)
	}
	if !snap.SavedAt.IsZero() {
		t.Errorf("SavedAt = %v, want zero", snap.SavedAt)
	}
}

func TestStore_SaveReplacesSnapshot(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	before := time.Now().Add(-time.Second)

	if err := s.SaveRemotes(ctx, []string{"s3", "gdrive", "old"}, map[string]string{"s3": "s3", "gdrive": "drive"}); err != nil {
		t.Fatalf("SaveRemotes() error = %v", err)
	}
	if err := s.SaveRemotes(ctx, []string{"s3", "gdrive"}, map[string]string{"s3": "s3", "gdrive": "drive"}); err != nil {
		t.Fatalf("SaveRemotes() error = %v", err)
	}

	snap, err := s.LoadRemotes(ctx)
	if err != nil {
		t.Fatalf("LoadRemotes() error = %v", err)
	}
	want := []string{"gdrive", "s3"}
	if len(snap.Names) != len(want) {
		t.Fatalf("Names = %v, want %v", snap.Names, want)
	}
	for i := range want {
		if snap.Names[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, snap.Names[i], want[i])
		}
	}
	if snap.Types["gdrive"] != "drive" || snap.Types["s3"] != "s3" {
		t.Errorf("Types = %v", snap.Types)
	}
	if snap.SavedAt.Before(before) {
		t.Errorf("SavedAt = %v, want after %v", snap.SavedAt, before)
	}
}

func TestStore_UnknownTypeOmitted(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	if err := s.SaveRemotes(ctx, []string{"mystery"}, nil); err != nil {
		t.Fatalf("SaveRemotes() error = %v", err)
	}
	snap, err := s.LoadRemotes(ctx)
	if err != nil {
		t.Fatalf("LoadRemotes() error = %v", err)
	}
	if _, ok := snap.Types["mystery"]; ok {
		t.Errorf("Types = %v, want no entry for mystery", snap.Types)
	}
}

func TestStore_CloseIdempotent(t *testing.T) {
	t.Parallel()

	s, err := Open(filepath.Join(t.TempDir(), "rcbar.db"), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
