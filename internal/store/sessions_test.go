package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsCreateGetDelete(t *testing.T) {
	sessions, err := NewSessions(4)
	require.NoError(t, err)

	id, st := sessions.Create()
	require.NotEmpty(t, id)

	got, err := sessions.Get(id)
	require.NoError(t, err)
	assert.Same(t, st, got)
	assert.Equal(t, 1, sessions.Len())

	assert.True(t, sessions.Delete(id))
	assert.False(t, sessions.Delete(id))
	_, err = sessions.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionsEvictLeastRecentlyUsed(t *testing.T) {
	sessions, err := NewSessions(2)
	require.NoError(t, err)

	first, _ := sessions.Create()
	second, _ := sessions.Create()

	_, err = sessions.Get(first)
	require.NoError(t, err)

	sessions.Create()
	assert.Equal(t, 2, sessions.Len())

	_, err = sessions.Get(second)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = sessions.Get(first)
	assert.NoError(t, err)
}

func TestNewSessionsDefaultCapacity(t *testing.T) {
	sessions, err := NewSessions(0)
	require.NoError(t, err)
	assert.Equal(t, 0, sessions.Len())
}
