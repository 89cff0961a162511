package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_BeginAndGet(t *testing.T) {
	store := NewSessionStore(DefaultSessionTTL)

	_, ok := store.Get(1)
	assert.False(t, ok)

	sess := store.Begin(1)
	assert.Equal(t, StepWinners, sess.Draft.Step)

	got, ok := store.Get(1)
	assert.True(t, ok)
	assert.Same(t, sess, got)

	// Begin replaces an existing dialog.
	replaced := store.Begin(1)
	got, ok = store.Get(1)
	assert.True(t, ok)
	assert.Same(t, replaced, got)
	assert.NotSame(t, sess, got)
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(5 * time.Minute).WithClock(func() time.Time { return now })

	store.Begin(1)

	now = now.Add(4 * time.Minute)
	_, ok := store.Get(1)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get(1)
	assert.False(t, ok, "dialog should expire lazily after the TTL")
}

func TestSessionStore_TouchExtendsDeadline(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore(5 * time.Minute).WithClock(func() time.Time { return now })

	store.Begin(1)

	now = now.Add(4 * time.Minute)
	store.Touch(1)

	// Past the original deadline but within the extended one.
	now = now.Add(3 * time.Minute)
	_, ok := store.Get(1)
	assert.True(t, ok)
}

func TestSessionStore_End(t *testing.T) {
	store := NewSessionStore(0)
	store.Begin(7)
	store.End(7)

	_, ok := store.Get(7)
	assert.False(t, ok)
}
