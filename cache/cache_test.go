package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgerstore "github.com/renovelt/catalog/storage/badger"
)

func TestMemoryGetSet(t *testing.T) {
	c := NewMemory[string]()

	_, ok := c.Get("absent")
	assert.False(t, ok)

	c.Set("greeting", "hello", time.Minute)
	value, ok := c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", value)

	// Overwrite on refresh
	c.Set("greeting", "goodbye", time.Minute)
	value, ok = c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "goodbye", value)
}

func TestMemoryTTLExpiry(t *testing.T) {
	c := NewMemory[int]()

	c.Set("short", 42, 10*time.Millisecond)
	_, ok := c.Get("short")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok, "expired entry must miss")
	assert.Equal(t, 0, c.Len(), "read-time eviction removes the entry")
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	c := NewMemory[int]()
	c.Set("zero", 1, 0)
	_, ok := c.Get("zero")
	assert.False(t, ok)
}

func TestBadgerStore(t *testing.T) {
	backend, err := badgerstore.OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	encode := func(v string) ([]byte, error) { return []byte(v), nil }
	decode := func(data []byte) (string, error) { return string(data), nil }

	c := NewBadger(backend, "test", encode, decode)

	_, ok := c.Get("absent")
	assert.False(t, ok)

	c.Set("greeting", "hello", time.Minute)
	value, ok := c.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", value)

	c.Set("short", "gone soon", time.Second)
	_, ok = c.Get("short")
	assert.True(t, ok)
}

func TestBadgerStoresAreNamespaced(t *testing.T) {
	backend, err := badgerstore.OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	encode := func(v string) ([]byte, error) { return []byte(v), nil }
	decode := func(data []byte) (string, error) { return string(data), nil }

	first := NewBadger(backend, "first", encode, decode)
	second := NewBadger(backend, "second", encode, decode)

	first.Set("key", "one", time.Minute)
	second.Set("key", "two", time.Minute)

	value, ok := first.Get("key")
	require.True(t, ok)
	assert.Equal(t, "one", value)

	value, ok = second.Get("key")
	require.True(t, ok)
	assert.Equal(t, "two", value)
}

func TestFingerprintDeterminism(t *testing.T) {
	a := Fingerprint("subfloor replacement", 0.85, 0.60, 10)
	b := Fingerprint("subfloor replacement", 0.85, 0.60, 10)
	assert.Equal(t, a, b)

	c := Fingerprint("subfloor replacement", 0.80, 0.60, 10)
	assert.NotEqual(t, a, c, "parameters must affect the fingerprint")

	d := Fingerprint("subfloor repair", 0.85, 0.60, 10)
	assert.NotEqual(t, a, d, "text must affect the fingerprint")
}

func TestOpenFallsBackToMemory(t *testing.T) {
	encode := func(v string) ([]byte, error) { return []byte(v), nil }
	decode := func(data []byte) (string, error) { return string(data), nil }

	store := Open(nil, "orphan", encode, decode)
	_, isMemory := store.(*Memory[string])
	assert.True(t, isMemory, "nil backend should yield a memory store")

	store.Set("key", "value", time.Minute)
	value, ok := store.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", value)
}
