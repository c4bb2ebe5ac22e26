package keypair

import (
	"math/rand"
	"sync"
	"time"
)

// Source is the pseudo-random input to MakePrime. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a math/rand source seeded with seed, or with the clock
// when seed is zero.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// LockedSource serializes access to a Source shared between goroutines.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func NewLockedSource(src Source) *LockedSource {
	return &LockedSource{src: src}
}

func (l *LockedSource) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}
