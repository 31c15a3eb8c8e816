package keylock

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultStripes is the stripe count used by New.
const DefaultStripes = 256

// Striped serialises work per key with a fixed set of mutexes. Keys that hash to the
// same stripe share a mutex, so memory stays constant however many keys are seen.
// Locks are not reentrant: never hold one key while locking another on the same Striped.
type Striped struct {
	stripes []sync.Mutex
}

// New creates a Striped with DefaultStripes mutexes.
func New() *Striped {
	return NewWithStripes(DefaultStripes)
}

// NewWithStripes creates a Striped with n mutexes. Values below 1 are treated as 1.
func NewWithStripes(n int) *Striped {
	if n < 1 {
		n = 1
	}
	return &Striped{stripes: make([]sync.Mutex, n)}
}

func (s *Striped) stripe(key string) *sync.Mutex {
	return &s.stripes[xxhash.Sum64String(key)%uint64(len(s.stripes))]
}

// Lock locks the stripe for key and returns its unlock function.
func (s *Striped) Lock(key string) func() {
	m := s.stripe(key)
	m.Lock()
	return m.Unlock
}
