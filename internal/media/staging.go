package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Staging creates job-scoped temp directories for voice media artifacts.
type Staging struct {
	root string
}

func NewStaging(root string) (*Staging, error) {
	if root == "" {
		root = os.TempDir()
	}
	root = filepath.Join(root, "voxbot-media")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	return &Staging{root: root}, nil
}

// Begin allocates a fresh job directory. The caller owns the returned Job
// and must release it with Cleanup on every exit path.
func (s *Staging) Begin() (*Job, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create job dir: %w", err)
	}
	return &Job{id: id, dir: dir}, nil
}

// Job is the ephemeral bundle of staged artifacts for one voice exchange.
// It is owned by a single handling goroutine and never shared.
type Job struct {
	id      string
	dir     string
	cleanup sync.Once
}

func (j *Job) ID() string { return j.id }

// Path returns the job-scoped location for a named artifact.
func (j *Job) Path(name string) string {
	return filepath.Join(j.dir, name)
}

// Create opens a new staged file inside the job directory.
func (j *Job) Create(name string) (*os.File, error) {
	return os.Create(j.Path(name))
}

// Open opens a previously staged file for reading.
func (j *Job) Open(name string) (*os.File, error) {
	return os.Open(j.Path(name))
}

// Cleanup removes the whole job directory and everything staged in it.
// Idempotent; intended to run exactly once via defer so no exit path can
// leak a handle.
func (j *Job) Cleanup() {
	j.cleanup.Do(func() {
		_ = os.RemoveAll(j.dir)
	})
}
