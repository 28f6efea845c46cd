// internal/app/system/idp/memory.go

package idp

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/xid"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/campushub/internal/app/identity"
)

// Memory is an in-process identity provider used when no external IDP is
// configured (local development, CI). Accounts live for the lifetime of
// the process. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	byEmail  map[string]string // email -> uid
	accounts map[string]*memAccount
}

type memAccount struct {
	uid         string
	email       string
	hash        []byte
	displayName string
	photoURL    string
}

// NewMemory returns an empty in-process provider.
func NewMemory() *Memory {
	return &Memory{
		byEmail:  make(map[string]string),
		accounts: make(map[string]*memAccount),
	}
}

func (m *Memory) NewSession(ctx context.Context) (identity.Session, error) {
	return &memSession{m: m}, nil
}

func (m *Memory) DeleteAccount(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acct, ok := m.accounts[uid]
	if !ok {
		return nil
	}
	delete(m.byEmail, acct.email)
	delete(m.accounts, uid)
	return nil
}

// UIDForEmail reports the uid holding the given email, if any.
func (m *Memory) UIDForEmail(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, ok := m.byEmail[email]
	return uid, ok
}

// CheckPassword verifies a credential pair, for development sign-in.
func (m *Memory) CheckPassword(email, password string) bool {
	m.mu.Lock()
	uid, ok := m.byEmail[email]
	var acct *memAccount
	if ok {
		acct = m.accounts[uid]
	}
	m.mu.Unlock()
	if acct == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(acct.hash, []byte(password)) == nil
}

type memSession struct {
	m *Memory
}

func (s *memSession) CreateAccount(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, exists := s.m.byEmail[email]; exists {
		return "", fmt.Errorf("idp: %s: %w", email, identity.ErrEmailTaken)
	}
	uid := xid.New().String()
	s.m.byEmail[email] = uid
	s.m.accounts[uid] = &memAccount{uid: uid, email: email, hash: hash}
	return uid, nil
}

func (s *memSession) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	acct, ok := s.m.accounts[uid]
	if !ok {
		return fmt.Errorf("idp: no account %s", uid)
	}
	acct.displayName = displayName
	acct.photoURL = photoURL
	return nil
}

func (s *memSession) Close(ctx context.Context) error { return nil }
