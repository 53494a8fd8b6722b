package viewer

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

var ErrRetryUnavailable = fmt.Errorf("%w: retry is only available after a failed load", errors.Conflict)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// View is a snapshot of what the viewer currently shows.
type View struct {
	State    State
	Profiles []profiles.Profile
	Err      error
}

// Empty reports whether the profiles loaded successfully and there are none.
func (v View) Empty() bool {
	return v.State == StateLoaded && len(v.Profiles) == 0
}

// Viewer lists the profiles of the identity supplied by its gate.
type Viewer struct {
	mu         sync.Mutex
	state      State
	profiles   []profiles.Profile
	err        error
	ownerId    string
	generation uint64

	gate   auth.Gate
	store  profiles.Service
	logger *zap.SugaredLogger
}

func New(gate auth.Gate, store profiles.Service, logger *zap.SugaredLogger) *Viewer {
	return &Viewer{
		state:  StateIdle,
		gate:   gate,
		store:  store,
		logger: logger,
	}
}

// Activate loads the profiles of the current identity with a single listing
// call. The returned error is the one the viewer transitioned to Errored with.
func (v *Viewer) Activate(ctx context.Context) error {
	identity := v.gate.CurrentIdentity()
	if identity == nil {
		return errors.ErrUnauthenticated
	}
	return v.load(ctx, identity.SubjectId)
}

// Retry re-issues the listing call of a failed activation.
func (v *Viewer) Retry(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateErrored {
		v.mu.Unlock()
		return ErrRetryUnavailable
	}
	ownerId := v.ownerId
	v.mu.Unlock()

	if identity := v.gate.CurrentIdentity(); identity == nil || identity.SubjectId != ownerId {
		return errors.ErrUnauthenticated
	}
	return v.load(ctx, ownerId)
}

func (v *Viewer) View() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	view := View{State: v.state, Err: v.err}
	if v.profiles != nil {
		view.Profiles = append(make([]profiles.Profile, 0, len(v.profiles)), v.profiles...)
	}
	return view
}

func (v *Viewer) load(ctx context.Context, ownerId string) error {
	v.mu.Lock()
	v.generation++
	generation := v.generation
	v.state = StateLoading
	v.ownerId = ownerId
	v.profiles = nil
	v.err = nil
	v.mu.Unlock()

	result, err := v.store.ListByOwner(ctx, ownerId)
	if err != nil && !errors.IsStorageError(err) {
		err = errors.NewStorageError("list profiles", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// A newer load owns the state.
	if generation != v.generation {
		v.logger.Debugw("discarding superseded profile listing", "ownerId", ownerId)
		return err
	}

	if err != nil {
		v.state = StateErrored
		v.err = err
		return err
	}

	if result == nil {
		result = make([]profiles.Profile, 0)
	}
	v.state = StateLoaded
	v.profiles = result
	return nil
}
