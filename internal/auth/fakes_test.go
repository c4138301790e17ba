package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"lucy-college/internal/apperr"
	"lucy-college/internal/user"
)

// memUsers is an in-memory credential store.
type memUsers struct {
	mu     sync.Mutex
	nextID int
	byMail map[string]*user.User
}

func newMemUsers() *memUsers {
	return &memUsers{byMail: map[string]*user.User{}}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byMail[user.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByID(_ context.Context, id int) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byMail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, email, hashedPassword string, role user.Role) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := user.NormalizeEmail(email)
	if _, ok := m.byMail[key]; ok {
		return nil, apperr.ErrDuplicateEmail
	}
	m.nextID++
	u := &user.User{ID: m.nextID, Email: key, Password: hashedPassword, Role: role}
	m.byMail[key] = u
	cp := *u
	return &cp, nil
}

// memLedger mirrors PostgresLedger semantics without a database.
type memLedger struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]time.Time
}

func newMemLedger(now func() time.Time) *memLedger {
	return &memLedger{now: now, entries: map[string]time.Time{}}
}

func (l *memLedger) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[token]; ok {
		return apperr.New(apperr.KindDuplicateToken, "token already revoked")
	}
	l.entries[token] = expiresAt
	return nil
}

func (l *memLedger) IsRevoked(_ context.Context, token string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.entries[token]
	return ok && exp.After(l.now()), nil
}

func (l *memLedger) Prune(context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var n int64
	for token, exp := range l.entries {
		if !exp.After(l.now()) {
			delete(l.entries, token)
			n++
		}
	}
	return n, nil
}

// plainHasher keeps tests fast; bcrypt is covered in the user package.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (plainHasher) Verify(plain, digest string) bool {
	return strings.TrimPrefix(digest, "hashed:") == plain && strings.HasPrefix(digest, "hashed:")
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock(t time.Time) *clock { return &clock{t: t} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
