package OTP

import (
	"math/rand"
	"sync"
	"time"
)

const CodeLength = 6

// TTL is how long a stored code stays valid.
const TTL = 10 * time.Minute

type entry struct {
	code      string
	expiresAt time.Time
}

// Store keeps one pending code per phone number. It is constructed at
// process start and injected wherever codes are issued or checked; a
// multi-instance deployment would swap this for a shared expiring KV store.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// GenerateCode returns a uniformly random numeric code.
func GenerateCode() string {
	var digits = []rune("1234567890")
	code := make([]rune, CodeLength)
	for index := range code {
		code[index] = digits[rand.Intn(len(digits))]
	}
	return string(code)
}

// Put stores a code for the phone, replacing any pending one.
func (store *Store) Put(phone, code string) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.entries[phone] = entry{code: code, expiresAt: store.now().Add(TTL)}
}

// Verify reports whether the code matches the pending entry for the phone.
// A missing entry, an expired entry and a wrong code are indistinguishable
// to the caller. A successful match consumes the entry.
func (store *Store) Verify(phone, code string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	pending, ok := store.entries[phone]
	if !ok {
		return false
	}
	if store.now().After(pending.expiresAt) {
		delete(store.entries, phone)
		return false
	}
	if pending.code != code {
		return false
	}
	delete(store.entries, phone)
	return true
}
