package OTP

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCode()
		require.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
		}
	}
}

func TestVerifySingleUse(t *testing.T) {
	store := NewStore()
	store.Put("+911234567890", "123456")

	assert.True(t, store.Verify("+911234567890", "123456"))
	// second attempt with the same code must fail
	assert.False(t, store.Verify("+911234567890", "123456"))
}

func TestVerifyWrongCode(t *testing.T) {
	store := NewStore()
	store.Put("+911234567890", "123456")

	assert.False(t, store.Verify("+911234567890", "654321"))
	// a wrong attempt does not consume the pending code
	assert.True(t, store.Verify("+911234567890", "123456"))
}

func TestVerifyUnknownPhone(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Verify("+911234567890", "123456"))
}

func TestVerifyExpired(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Put("+911234567890", "123456")

	store.now = func() time.Time { return now.Add(TTL + time.Second) }
	assert.False(t, store.Verify("+911234567890", "123456"))

	// expired entry is evicted, a fresh code works again
	store.Put("+911234567890", "111111")
	assert.True(t, store.Verify("+911234567890", "111111"))
}

func TestVerifyAtBoundary(t *testing.T) {
	store := NewStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	store.Put("+911234567890", "123456")

	// exactly at expiry is still valid, only after is rejected
	store.now = func() time.Time { return now.Add(TTL) }
	assert.True(t, store.Verify("+911234567890", "123456"))
}

func TestPutOverwritesPendingCode(t *testing.T) {
	store := NewStore()
	store.Put("+911234567890", "111111")
	store.Put("+911234567890", "222222")

	assert.False(t, store.Verify("+911234567890", "111111"))
	assert.True(t, store.Verify("+911234567890", "222222"))
}

func TestConcurrentPhonesDoNotInterfere(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		phone := fmt.Sprintf("+9112345%05d", i)
		code := fmt.Sprintf("%06d", i)
		store.Put(phone, code)
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, store.Verify(phone, code))
			assert.False(t, store.Verify(phone, code))
		}()
	}
	wg.Wait()
}
