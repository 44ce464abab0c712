package moderation

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// roleCache caches moderator flags with TTL-based expiration so repeated
// checks within a session don't hit the account registry every time.
type roleCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]roleEntry
	ttl     time.Duration
	clock   clockwork.Clock
}

type roleEntry struct {
	isModerator bool
	expiresAt   time.Time
}

func newRoleCache(ttl time.Duration, clock clockwork.Clock) *roleCache {
	return &roleCache{
		entries: make(map[uuid.UUID]roleEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *roleCache) get(userID uuid.UUID) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok || c.clock.Now().After(entry.expiresAt) {
		return false, false
	}
	return entry.isModerator, true
}

func (c *roleCache) set(userID uuid.UUID, isModerator bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[userID] = roleEntry{
		isModerator: isModerator,
		expiresAt:   c.clock.Now().Add(c.ttl),
	}
}

// invalidate removes one user's cached flag, forcing a registry read on
// the next check. Used when the flag is changed.
func (c *roleCache) invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
