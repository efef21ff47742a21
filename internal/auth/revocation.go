package auth

import (
	"sync"
	"time"
)

// RevocationList remembers logged-out token ids until they would have
// expired anyway. It is process-local.
type RevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{revoked: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked()
	l.revoked[tokenID] = expiresAt
}

func (l *RevocationList) IsRevoked(tokenID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.revoked[tokenID]
	if !ok {
		return false
	}
	if l.now().After(exp) {
		delete(l.revoked, tokenID)
		return false
	}
	return true
}

func (l *RevocationList) pruneLocked() {
	now := l.now()
	for id, exp := range l.revoked {
		if now.After(exp) {
			delete(l.revoked, id)
		}
	}
}
