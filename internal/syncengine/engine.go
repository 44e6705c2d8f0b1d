package syncengine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
)

const (
	DefaultDebounce = 2 * time.Second
	writeTimeout    = 30 * time.Second
)

// LocalState is the session-owned roster and history. ReplaceState must not
// call back into the engine.
type LocalState interface {
	State() domain.State
	ReplaceState(ctx context.Context, s domain.State) error
}

// Status is a point-in-time view of the engine.
type Status struct {
	SessionID    string    `json:"sessionId"`
	Loaded       bool      `json:"loaded"`
	Syncing      bool      `json:"syncing"`
	Pending      bool      `json:"pending"`
	Writes       int       `json:"writes"`
	Replacements int       `json:"replacements"`
	LastError    string    `json:"lastError,omitempty"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitempty"`
}

// Engine mirrors local state to a single remote document. Inbound snapshots
// replace local state unless their fingerprint matches the last one this
// session wrote or consumed; local mutations are written after a trailing
// debounce window. All state transitions run on the Run goroutine.
type Engine struct {
	store    domain.DocumentStore
	local    LocalState
	debounce time.Duration
	now      func() time.Time

	mutations chan struct{}
	reloads   chan struct{}

	latestMu sync.Mutex
	latest   *domain.State

	statusMu sync.RWMutex
	status   Status

	// owned by the Run goroutine
	lastKnown string
	loaded    bool
	timer     *time.Timer
	timerC    <-chan time.Time
}

// New creates an engine. debounce <= 0 uses DefaultDebounce.
func New(store domain.DocumentStore, local LocalState, debounce time.Duration) *Engine {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Engine{
		store:     store,
		local:     local,
		debounce:  debounce,
		now:       time.Now,
		mutations: make(chan struct{}, 1),
		reloads:   make(chan struct{}, 1),
		status:    Status{SessionID: uuid.NewString()},
	}
}

// NotifyLocalChange records a local mutation. It never blocks; only the most
// recent state is kept.
func (e *Engine) NotifyLocalChange(s domain.State) {
	e.latestMu.Lock()
	e.latest = &s
	e.latestMu.Unlock()

	select {
	case e.mutations <- struct{}{}:
	default:
	}
}

// Reload re-reads the remote document and applies it even when it matches the
// last known fingerprint. When the document is missing local state is pushed.
func (e *Engine) Reload() {
	select {
	case e.reloads <- struct{}{}:
	default:
	}
}

// Status returns a copy of the current status.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

func (e *Engine) updateStatus(fn func(*Status)) {
	e.statusMu.Lock()
	fn(&e.status)
	e.statusMu.Unlock()
}

// Run subscribes to the remote document and processes events until ctx is
// cancelled. A pending debounced write is flushed once before returning.
func (e *Engine) Run(ctx context.Context) error {
	ctx = logger.WithLogger(ctx, map[string]interface{}{"sync_session": e.status.SessionID})

	snapshots, unsubscribe, err := e.store.Subscribe(ctx)
	if err != nil {
		e.recordError(ctx, &domain.SyncError{Op: "subscribe", Err: err})
		return err
	}
	defer unsubscribe()
	logger.InfoLog(ctx, "sync engine started, debounce %s", e.debounce)

	for {
		select {
		case <-ctx.Done():
			e.shutdown(ctx)
			return nil

		case snap, ok := <-snapshots:
			if !ok {
				logger.WarnLog(ctx, "remote subscription closed")
				snapshots = nil
				continue
			}
			e.handleSnapshot(ctx, snap)

		case <-e.mutations:
			e.latestMu.Lock()
			s := e.latest
			e.latest = nil
			e.latestMu.Unlock()
			if s != nil {
				e.handleLocalMutation(ctx, *s)
			}

		case <-e.reloads:
			e.handleReload(ctx)

		case <-e.timerC:
			e.stopTimer()
			e.flush(ctx)
		}
	}
}

func (e *Engine) handleSnapshot(ctx context.Context, snap domain.Snapshot) {
	if snap.Err != nil {
		e.recordError(ctx, &domain.SyncError{Op: "read", Err: snap.Err})
		return
	}

	if snap.Exists && snap.Document != nil {
		fp := Fingerprint(snap.Document.Employees, snap.Document.History)
		if fp != e.lastKnown {
			incoming := domain.State{
				Employees: domain.CloneEmployees(snap.Document.Employees),
				History:   snap.Document.History.Clone(),
			}
			if incoming.Employees == nil {
				incoming.Employees = []domain.Employee{}
			}
			if err := e.local.ReplaceState(ctx, incoming); err != nil {
				logger.ErrorLog(ctx, "failed to apply remote document: %v", err)
				return
			}
			e.lastKnown = fp
			e.updateStatus(func(s *Status) { s.Replacements++ })
			logger.InfoLog(ctx, "applied remote document (%d employees, %d days)",
				len(incoming.Employees), len(incoming.History))
		} else {
			logger.DebugLog(ctx, "discarded echoed remote document")
		}
	}

	if !e.loaded {
		e.loaded = true
		e.updateStatus(func(s *Status) { s.Loaded = true })
	}

	// only local mutations restart a running timer
	if StateFingerprint(e.local.State()) == e.lastKnown {
		e.stopTimer()
	} else if e.timer == nil {
		e.armTimer()
	}
}

func (e *Engine) handleLocalMutation(ctx context.Context, s domain.State) {
	e.stopTimer()
	if !e.loaded {
		logger.DebugLog(ctx, "local change before first remote snapshot, not scheduling a write")
		return
	}
	if StateFingerprint(s) == e.lastKnown {
		return
	}
	e.armTimer()
}

func (e *Engine) handleReload(ctx context.Context) {
	readCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	doc, err := e.store.Read(readCtx)
	if err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
		e.recordError(ctx, &domain.SyncError{Op: "read", Err: err})
		return
	}

	e.lastKnown = ""
	if err != nil {
		e.handleSnapshot(ctx, domain.Snapshot{Exists: false})
		return
	}
	e.handleSnapshot(ctx, domain.Snapshot{Document: doc, Exists: true})
}

// flush performs the scheduled write. The fingerprint is recorded before the
// write so the echo is recognised, and cleared again on failure.
func (e *Engine) flush(ctx context.Context) {
	if !e.loaded {
		return
	}
	s := e.local.State()
	fp := StateFingerprint(s)
	if fp == e.lastKnown {
		return
	}

	e.lastKnown = fp
	e.updateStatus(func(st *Status) { st.Syncing = true })

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	err := e.store.Write(writeCtx, domain.Document{
		Employees:   s.Employees,
		History:     s.History,
		LastUpdated: e.now().UTC().Format(time.RFC3339Nano),
	})

	e.updateStatus(func(st *Status) {
		st.Syncing = false
		st.Writes++
	})
	if err != nil {
		e.lastKnown = ""
		e.recordError(ctx, &domain.SyncError{Op: "write", Err: err})
		return
	}
	e.updateStatus(func(st *Status) {
		st.LastError = ""
		st.LastSyncedAt = e.now()
	})
	logger.DebugLog(ctx, "remote document written")
}

func (e *Engine) shutdown(ctx context.Context) {
	if e.timer == nil {
		return
	}
	e.stopTimer()
	// ctx is already cancelled
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	logger.InfoLog(flushCtx, "flushing pending write before shutdown")
	e.flush(flushCtx)
}

func (e *Engine) armTimer() {
	e.stopTimer()
	e.timer = time.NewTimer(e.debounce)
	e.timerC = e.timer.C
	e.updateStatus(func(s *Status) { s.Pending = true })
}

func (e *Engine) stopTimer() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer, e.timerC = nil, nil
	e.updateStatus(func(s *Status) { s.Pending = false })
}

func (e *Engine) recordError(ctx context.Context, err *domain.SyncError) {
	logger.ErrorLog(ctx, "sync failed: %v", err)
	e.updateStatus(func(s *Status) { s.LastError = err.Error() })
}
