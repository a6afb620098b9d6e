package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// otpStore holds one-time codes keyed by email. Each AuthService owns its own
// instance; entries expire after the configured TTL and are pruned by the
// background sweeper.
type otpStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	codes map[string]otpEntry
}

func newOTPStore(ttl time.Duration) *otpStore {
	return &otpStore{
		ttl:   ttl,
		codes: make(map[string]otpEntry),
	}
}

// Generate creates a fresh 6-digit code for the email, replacing any
// previous one.
func (s *otpStore) Generate(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate OTP: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64()+100000)

	s.mu.Lock()
	s.codes[email] = otpEntry{code: code, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return code, nil
}

// Verify reports whether the code matches the stored entry for the email.
// A matching code is consumed: a second Verify with the same code fails.
func (s *otpStore) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[email]
	if !ok || entry.code != code {
		return false
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.codes, email)
		return false
	}
	delete(s.codes, email)
	return true
}

// EvictExpired removes entries past their expiry and returns how many were
// removed.
func (s *otpStore) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	evicted := 0
	for email, entry := range s.codes {
		if now.After(entry.expiresAt) {
			delete(s.codes, email)
			evicted++
		}
	}
	return evicted
}
