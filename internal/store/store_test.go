package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easyapp_server/internal/types"
)

func files() types.ProjectFiles {
	return types.ProjectFiles{
		GoogleServices: "{}",
		AppIcon:        "<vector/>",
		Item1Icon:      "<vector/>",
		Item2Icon:      "<vector/>",
		Settings:       "<vector/>",
		AppTree:        "{}",
	}
}

func TestNewStoreIsEmpty(t *testing.T) {
	s := New()
	assert.Equal(t, StatusEmpty, s.State().Status())
	_, err := s.Ready()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestLoadingToReady(t *testing.T) {
	s := New()
	attempt, err := s.Begin()
	require.NoError(t, err)
	assert.Equal(t, StatusLoading, s.State().Status())

	require.NoError(t, attempt.Succeed(files(), "Demo", "ca-app-pub-1~2"))

	ready, ok := s.State().(Ready)
	require.True(t, ok)
	assert.Equal(t, files(), ready.Files)
	assert.Equal(t, types.PathGoogleServices, ready.Selected)
	assert.Equal(t, "Demo", ready.AppName)
	assert.Equal(t, "ca-app-pub-1~2", ready.AdIdentifier)
	assert.False(t, ready.CompletedAt.IsZero())
}

func TestLoadingToFailed(t *testing.T) {
	s := New()
	attempt, err := s.Begin()
	require.NoError(t, err)

	require.NoError(t, attempt.Fail(errors.New("model returned an invalid response")))

	failed, ok := s.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "model returned an invalid response", failed.Message)
	_, err = s.Ready()
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestBeginClearsPreviousResult(t *testing.T) {
	s := New()
	first, err := s.Begin()
	require.NoError(t, err)
	require.NoError(t, first.Succeed(files(), "Demo", "ad"))

	second, err := s.Begin()
	require.NoError(t, err)
	_, isLoading := s.State().(Loading)
	assert.True(t, isLoading)
	_, err = s.Ready()
	assert.ErrorIs(t, err, ErrNotReady)

	require.NoError(t, second.Fail(nil))
	assert.Equal(t, Failed{Message: "generation failed"}, s.State())

	_, err = s.Begin()
	assert.NoError(t, err, "Failed is re-entrant")
}

func TestBeginWhileLoading(t *testing.T) {
	s := New()
	_, err := s.Begin()
	require.NoError(t, err)

	_, err = s.Begin()
	assert.ErrorIs(t, err, ErrBuildInProgress)
}

func TestConcurrentBeginAllowsOneAttempt(t *testing.T) {
	s := New()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Begin(); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)
}

func TestAttemptSettlesOnce(t *testing.T) {
	s := New()
	attempt, err := s.Begin()
	require.NoError(t, err)

	require.NoError(t, attempt.Succeed(files(), "Demo", "ad"))
	assert.ErrorIs(t, attempt.Fail(errors.New("late")), ErrAttemptSettled)
	assert.Equal(t, StatusReady, s.State().Status())
}

func TestSelect(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Select(types.PathAppTree), ErrNotReady)

	attempt, err := s.Begin()
	require.NoError(t, err)
	assert.ErrorIs(t, s.Select(types.PathAppTree), ErrNotReady)
	require.NoError(t, attempt.Succeed(files(), "Demo", "ad"))

	require.NoError(t, s.Select(types.PathAppTree))
	ready, err := s.Ready()
	require.NoError(t, err)
	assert.Equal(t, types.PathAppTree, ready.Selected)

	assert.ErrorIs(t, s.Select("res/raw/other.bin"), ErrUnknownFile)
	ready, err = s.Ready()
	require.NoError(t, err)
	assert.Equal(t, types.PathAppTree, ready.Selected)
}
