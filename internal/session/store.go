package session

import (
	"sync"
	"time"
)

// Mode is the single outstanding disambiguation state for a user's next
// text message.
type Mode string

const (
	ModeIdle                 Mode = "idle"
	ModeAwaitingImagePrompt  Mode = "awaiting_image_prompt"
	ModeAwaitingAvatarPrompt Mode = "awaiting_avatar_prompt"
)

type entry struct {
	mode    Mode
	touched time.Time
}

// Store holds one mutable mode record per user. It is safe for concurrent
// use from any number of in-flight message handlers. Capacity is bounded:
// once the cap is reached the least-recently-touched entry is evicted, so
// memory does not grow without bound with distinct users.
type Store struct {
	mu       sync.Mutex
	entries  map[int64]*entry
	capacity int
	onSize   func(n int)
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = 10000
	}
	return &Store{
		entries:  make(map[int64]*entry),
		capacity: capacity,
	}
}

// SetSizeHook registers a callback invoked with the entry count after
// every mutation. Used to keep the tracked-sessions gauge current.
func (s *Store) SetSizeHook(hook func(n int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSize = hook
}

// Get returns the user's current mode, lazily creating an Idle entry.
func (s *Store) Get(userID int64) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(userID)
	e.touched = time.Now()
	return e.mode
}

// SetMode arms the user's next-text interpretation.
func (s *Store) SetMode(userID int64, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(userID)
	e.mode = mode
	e.touched = time.Now()
}

// ConsumeMode reads the current mode and resets it to Idle in one atomic
// step. Of N concurrent callers for the same user, at most one observes a
// non-Idle mode; this is what keeps the at-most-one-pending-prompt rule
// safe under overlapping message handling.
func (s *Store) ConsumeMode(userID int64) Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(userID)
	mode := e.mode
	e.mode = ModeIdle
	e.touched = time.Now()
	return mode
}

// Len reports the number of tracked users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// ensure must be called with s.mu held.
func (s *Store) ensure(userID int64) *entry {
	if e, ok := s.entries[userID]; ok {
		return e
	}
	if len(s.entries) >= s.capacity {
		s.evictOldest()
	}
	e := &entry{mode: ModeIdle}
	s.entries[userID] = e
	if s.onSize != nil {
		s.onSize(len(s.entries))
	}
	return e
}

// evictOldest must be called with s.mu held. Dropping an armed entry
// silently loses the pending prompt, which matches what a process restart
// already does.
func (s *Store) evictOldest() {
	var (
		oldestID int64
		oldestAt time.Time
		found    bool
	)
	for id, e := range s.entries {
		if !found || e.touched.Before(oldestAt) {
			oldestID = id
			oldestAt = e.touched
			found = true
		}
	}
	if found {
		delete(s.entries, oldestID)
	}
}
