package repository

import "sync"

// userLocks serializes read-modify-write cycles on one user's document.
// Entries are never removed; the map stays bounded by the number of users.
type userLocks struct {
	mu    sync.Mutex
	users map[int64]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{users: make(map[int64]*sync.Mutex)}
}

func (l *userLocks) Lock(userID int64) {
	l.mu.Lock()
	m, ok := l.users[userID]
	if !ok {
		m = &sync.Mutex{}
		l.users[userID] = m
	}
	l.mu.Unlock()
	m.Lock()
}

func (l *userLocks) Unlock(userID int64) {
	l.mu.Lock()
	m := l.users[userID]
	l.mu.Unlock()
	m.Unlock()
}
