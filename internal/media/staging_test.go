package media

import (
	"os"
	"testing"
)

func TestBeginCreatesIsolatedJobDirs(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("NewStaging() error = %v", err)
	}

	a, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer a.Cleanup()
	b, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	defer b.Cleanup()

	if a.ID() == b.ID() {
		t.Fatalf("job IDs should differ")
	}
	if a.Path("voice.ogg") == b.Path("voice.ogg") {
		t.Fatalf("job paths should not collide")
	}
}

func TestCleanupRemovesAllStagedFiles(t *testing.T) {
	s, err := NewStaging(t.TempDir())
	if err != nil {
		t.Fatalf("NewStaging() error = %v", err)
	}
	job, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	f, err := job.Create("voice.ogg")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := f.WriteString("payload"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	job.Cleanup()
	job.Cleanup() // idempotent

	if _, err := os.Stat(job.Path("voice.ogg")); !os.IsNotExist(err) {
		t.Fatalf("staged file survived cleanup: %v", err)
	}
	if _, err := os.Stat(job.Path(".")); !os.IsNotExist(err) {
		t.Fatalf("job dir survived cleanup: %v", err)
	}
}
