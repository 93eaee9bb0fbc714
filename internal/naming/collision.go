package naming

import (
	"sync"

	"github.com/pkg/errors"
)

// ErrPlannedCollision is returned when two inputs are routed to the same
// output path within one run.
var ErrPlannedCollision = errors.New("two inputs planned for the same destination")

// CollisionGuard tracks output paths claimed by input files. Unlike on-disk
// checks it sees the whole plan, so duplicates are caught before the first
// transfer. All methods are goroutine-safe.
type CollisionGuard struct {
	mu     sync.Mutex
	owners map[string]string // output path → input path that owns it
}

// NewCollisionGuard creates a ready-to-use guard.
func NewCollisionGuard() *CollisionGuard {
	return &CollisionGuard{owners: make(map[string]string)}
}

// Claim records that input will be written to output. Claiming the same
// pair twice is a no-op; claiming an output already owned by a different
// input returns ErrPlannedCollision naming both inputs.
func (g *CollisionGuard) Claim(input, output string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	owner, exists := g.owners[output]
	if exists && owner != input {
		return errors.Wrapf(ErrPlannedCollision, "%s and %s both map to %s", owner, input, output)
	}
	g.owners[output] = input
	return nil
}
