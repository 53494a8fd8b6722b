package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"

	"github.com/tidepool-org/careprofiles/auth"
	"github.com/tidepool-org/careprofiles/errors"
	"github.com/tidepool-org/careprofiles/profiles"
)

var ErrSubmitInProgress = fmt.Errorf("%w: a commit is already in progress", errors.Conflict)

type State int

const (
	StateEditing State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	}
	return "unknown"
}

// Composer holds a single in-progress draft and commits it to the store on
// behalf of the identity supplied by its gate. It is safe for concurrent use;
// at most one commit is in flight at any time.
type Composer struct {
	mu    sync.Mutex
	draft profiles.Profile
	state State

	gate   auth.Gate
	store  profiles.Service
	now    func() time.Time
	logger *zap.SugaredLogger
}

type Option func(*Composer)

// WithClock replaces the clock used to stamp committed profiles.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) {
		c.now = now
	}
}

func New(gate auth.Gate, store profiles.Service, logger *zap.SugaredLogger, opts ...Option) *Composer {
	c := &Composer{
		draft:  profiles.New(),
		state:  StateEditing,
		gate:   gate,
		store:  store,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns a copy of the current draft.
func (c *Composer) Draft() profiles.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyDraft(c.draft)
}

func (c *Composer) SetField(path FieldPath, value string) error {
	return c.Apply(Patch{Path: path, Value: value})
}

func (c *Composer) SetMedicine(index int, value string) error {
	return c.Apply(Patch{Path: MedicinePath(index), Value: value})
}

// Apply replaces the draft with a copy that has the patch applied.
func (c *Composer) Apply(patch Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrSubmitInProgress
	}

	updated, err := Apply(c.draft, patch)
	if err != nil {
		return err
	}
	c.draft = updated
	return nil
}

// AddMedicineSlot appends an empty medicine and returns its index.
func (c *Composer) AddMedicineSlot() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return 0, ErrSubmitInProgress
	}

	updated := copyDraft(c.draft)
	updated.Medicines = append(updated.Medicines, "")
	c.draft = updated
	return len(updated.Medicines) - 1, nil
}

// Reset discards the draft.
func (c *Composer) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateEditing {
		return ErrSubmitInProgress
	}
	c.draft = profiles.New()
	return nil
}

// Commit validates the draft, stamps it for the current identity and creates
// it in the store. On success the draft is cleared and the new profile id is
// returned. On failure the draft is kept as it was.
func (c *Composer) Commit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.state != StateEditing {
		c.mu.Unlock()
		return "", ErrSubmitInProgress
	}

	identity := c.gate.CurrentIdentity()
	if identity == nil {
		c.mu.Unlock()
		return "", errors.ErrUnauthenticated
	}

	if err := profiles.Validate(c.draft); err != nil {
		c.mu.Unlock()
		return "", err
	}

	snapshot := copyDraft(c.draft)
	c.state = StateSubmitting
	c.mu.Unlock()

	profile := profiles.Normalize(snapshot, identity.SubjectId, c.now())
	id, err := c.store.Create(ctx, profile)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateEditing

	if err != nil {
		if !errors.IsStorageError(err) {
			err = errors.NewStorageError("create profile", err)
		}
		c.logger.Warnw("unable to commit profile draft", "ownerId", identity.SubjectId, zap.Error(err))
		return "", err
	}

	c.draft = profiles.New()
	c.logger.Infow("profile draft committed", "ownerId", identity.SubjectId, "profileId", id)
	return id, nil
}

func copyDraft(draft profiles.Profile) profiles.Profile {
	return deepcopy.Copy(draft).(profiles.Profile)
}
