// Package store holds the outcome of the latest generation attempt of a session.
//
// The state is a tagged variant: exactly one of Empty, Loading, Ready or Failed. A Loading
// state never carries a previous result, and a second attempt cannot start while one is
// outstanding.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"easyapp_server/internal/types"
)

var (
	ErrBuildInProgress = errors.New("a build is already in progress")
	ErrNotReady        = errors.New("no generated files are available")
	ErrUnknownFile     = errors.New("unknown project file")
	ErrAttemptSettled  = errors.New("attempt already settled")
)

type Status string

const (
	StatusEmpty   Status = "empty"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is one of Empty, Loading, Ready or Failed.
type State interface {
	Status() Status
}

type Empty struct{}

type Loading struct {
	StartedAt time.Time
}

// Ready holds the last successful result and the file currently shown.
type Ready struct {
	Files        types.ProjectFiles
	Selected     string
	AppName      string
	AdIdentifier string
	CompletedAt  time.Time
}

type Failed struct {
	Message string
}

func (Empty) Status() Status   { return StatusEmpty }
func (Loading) Status() Status { return StatusLoading }
func (Ready) Status() Status   { return StatusReady }
func (Failed) Status() Status  { return StatusFailed }

// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	state   State
	attempt uint64
	now     func() time.Time
}

func New() *Store {
	return &Store{state: Empty{}, now: time.Now}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin moves the store to Loading, dropping any previous result. It fails with
// ErrBuildInProgress while another attempt is outstanding.
func (s *Store) Begin() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, loading := s.state.(Loading); loading {
		return nil, ErrBuildInProgress
	}
	s.attempt++
	s.state = Loading{StartedAt: s.now()}
	return &Attempt{store: s, id: s.attempt}, nil
}

// Select changes the displayed file of a Ready state.
func (s *Store) Select(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ready, ok := s.state.(Ready)
	if !ok {
		return ErrNotReady
	}
	if !types.IsProjectFilePath(path) {
		return fmt.Errorf("%w: %q", ErrUnknownFile, path)
	}
	ready.Selected = path
	s.state = ready
	return nil
}

// Ready returns the Ready state, or ErrNotReady.
func (s *Store) Ready() (Ready, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ready, ok := s.state.(Ready)
	if !ok {
		return Ready{}, ErrNotReady
	}
	return ready, nil
}

// Attempt is the single writer of the Loading state it created.
type Attempt struct {
	store *Store
	id    uint64
	once  sync.Once
}

// Succeed settles the attempt into Ready with the first file selected.
func (a *Attempt) Succeed(files types.ProjectFiles, appName, adIdentifier string) error {
	return a.settle(func(now time.Time) State {
		return Ready{
			Files:        files,
			Selected:     types.ProjectFilePaths[0],
			AppName:      appName,
			AdIdentifier: adIdentifier,
			CompletedAt:  now,
		}
	})
}

// Fail settles the attempt into Failed carrying err's message.
func (a *Attempt) Fail(err error) error {
	msg := "generation failed"
	if err != nil {
		msg = err.Error()
	}
	return a.settle(func(time.Time) State {
		return Failed{Message: msg}
	})
}

func (a *Attempt) settle(next func(time.Time) State) error {
	settled := ErrAttemptSettled
	a.once.Do(func() {
		s := a.store
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.attempt != a.id {
			return
		}
		s.state = next(s.now())
		settled = nil
	})
	return settled
}
