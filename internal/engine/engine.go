// Package engine is the training core: it owns the profile, the workout in
// progress, history, records and check-ins, and saves a snapshot of all of it
// through a storage.Provider after every change.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/julianstephens/liftlog/internal/alternatives"
	"github.com/julianstephens/liftlog/internal/catalog"
	"github.com/julianstephens/liftlog/internal/constants"
	"github.com/julianstephens/liftlog/internal/logger"
	"github.com/julianstephens/liftlog/internal/models"
	"github.com/julianstephens/liftlog/internal/records"
	"github.com/julianstephens/liftlog/internal/session"
	"github.com/julianstephens/liftlog/internal/storage"
)

// Engine is safe for concurrent use. All state is guarded by one mutex.
type Engine struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	resolver *alternatives.Resolver
	machine  *session.Machine
	tracker  *records.Tracker
	profile  models.UserProfile

	store storage.Provider
	saver *autosaver
	opts  options
}

type options struct {
	now          func() time.Time
	newID        func() string
	catalog      *catalog.Catalog
	windowDays   int
	bulkMirrored bool
	debounce     time.Duration
}

// Option configures an Engine
type Option func(*options)

// WithClock overrides the time source used for sessions, check-ins and reviews
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides session id generation
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithCatalog replaces the embedded exercise catalog
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithReviewWindow sets the weekly review window in days
func WithReviewWindow(days int) Option {
	return func(o *options) { o.windowDays = days }
}

// WithBulkMirrored enables automatic calorie adjustments for the bulk goal
func WithBulkMirrored(enabled bool) Option {
	return func(o *options) { o.bulkMirrored = enabled }
}

// WithDebounce batches saves made within d. Zero saves after every change.
func WithDebounce(d time.Duration) Option {
	return func(o *options) { o.debounce = d }
}

// New creates an engine over store. Call Load before use and Close when done.
func New(store storage.Provider, opts ...Option) *Engine {
	o := options{
		now:        time.Now,
		windowDays: constants.ReviewWindowDays,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.MustDefault()
	}
	if o.windowDays < 1 {
		o.windowDays = constants.ReviewWindowDays
	}

	machineOpts := []session.Option{session.WithClock(o.now)}
	if o.newID != nil {
		machineOpts = append(machineOpts, session.WithIDGenerator(o.newID))
	}

	e := &Engine{
		catalog:  o.catalog,
		resolver: alternatives.NewResolver(o.catalog.AdjacencyTable()),
		machine:  session.New(machineOpts...),
		tracker:  records.NewTracker(),
		store:    store,
		opts:     o,
	}
	e.saver = newAutosaver(o.debounce, e.persist)
	return e
}

// Load replaces the in-memory state with the stored snapshot. A store with no
// snapshot yet loads as empty state.
func (e *Engine) Load(ctx context.Context) error {
	snap, err := e.store.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.profile = snap.Profile
	e.tracker = records.FromSnapshot(snap)
	e.machine.SetDraft(snap.DraftWorkout)

	logger.Debug("Loaded state",
		"sessions", len(snap.WorkoutHistory),
		"records", len(snap.PersonalRecords),
		"checkins", len(snap.DailyCheckIns),
		"draft", snap.DraftWorkout != nil)
	return nil
}

// Flush writes pending changes now and reports a failed save
func (e *Engine) Flush(ctx context.Context) error {
	return e.saver.flush(ctx)
}

// Pending reports whether there are changes not yet saved
func (e *Engine) Pending() bool {
	return e.saver.pending()
}

// Close flushes pending changes and closes the store
func (e *Engine) Close(ctx context.Context) error {
	return multierr.Combine(
		e.saver.close(ctx),
		e.store.Close(),
	)
}

// Snapshot returns a copy of the complete engine state
func (e *Engine) Snapshot() models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() models.Snapshot {
	snap := models.Snapshot{
		Version:      constants.SnapshotVersion,
		Profile:      e.profile,
		DraftWorkout: e.machine.Draft(),
	}
	e.tracker.Fill(&snap)
	return snap
}

func (e *Engine) persist(ctx context.Context) error {
	return e.store.SaveSnapshot(ctx, e.Snapshot())
}

// mutate runs fn under the state lock and schedules a save when it succeeds.
// The save runs after the lock is released.
func (e *Engine) mutate(fn func() error) error {
	e.mu.Lock()
	err := fn()
	e.mu.Unlock()

	if err == nil {
		e.saver.mark()
	}
	return err
}

// Catalog returns the exercise catalog the engine was built with
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

func (e *Engine) today() string {
	return e.opts.now().Format(constants.DateFormat)
}
