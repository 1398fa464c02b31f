// Package resolver owns the contact resolution cache lifecycle and its lock-free lookups.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"
	"github.com/huangsam/callerid/internal/contract"
	"github.com/huangsam/callerid/internal/phone"
	"github.com/huangsam/callerid/internal/snapshot"
	"github.com/huangsam/callerid/schema"
)

// Manager coordinates the cache lifecycle. All mutations go through mu and at
// most one build runs at a time; Lookup only reads the published view.
//
// Construct one Manager at startup and hand it to every consumer.
type Manager struct {
	gate    contract.PermissionGate
	source  contract.ContactSource
	prefs   contract.PreferenceStore
	history contract.HistoryStore
	norm    phone.Normalizer
	now     func() time.Time

	view   atomic.Pointer[view]
	notify *notifier

	mu         sync.Mutex
	state      schema.ManagerState
	enabled    bool
	auth       schema.AuthorizationStatus
	lastErr    error
	lastBuild  time.Time
	generation uint64
	launched   bool
	inflight   *flight

	deferLaunch bool
}

var _ contract.ContactResolver = &Manager{} // Compile-time check

// view is what Lookup sees. It is replaced wholesale, never modified.
type view struct {
	snap    *snapshot.Snapshot
	enabled bool
	auth    schema.AuthorizationStatus
}

// flight is the one build in progress. Callers arriving while it runs wait on
// done and share err instead of starting another enumeration.
type flight struct {
	trigger schema.BuildTrigger
	gen     uint64
	done    chan struct{}
	err     error
	waiters int
}

func (f *flight) wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Option configures a Manager.
type Option func(*Manager)

// WithHistory records every build attempt in h.
func WithHistory(h contract.HistoryStore) Option {
	return func(m *Manager) { m.history = h }
}

// DeferLaunchBuild makes InitializeOnLaunch restore the preference without
// building. The snapshot stays empty until the next Refresh.
func DeferLaunchBuild() Option {
	return func(m *Manager) { m.deferLaunch = true }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a disabled Manager with an empty snapshot.
func New(gate contract.PermissionGate, source contract.ContactSource, prefs contract.PreferenceStore, norm phone.Normalizer, opts ...Option) *Manager {
	m := &Manager{
		gate:   gate,
		source: source,
		prefs:  prefs,
		norm:   norm,
		now:    time.Now,
		notify: newNotifier(),
		state:  schema.DisabledState,
		auth:   gate.CurrentStatus(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.view.Store(&view{snap: snapshot.Empty(), auth: m.auth})
	return m
}

// Lookup resolves a raw phone number against the published snapshot.
// It never blocks and returns false when the cache is disabled, unauthorized,
// or has no entry for the number.
func (m *Manager) Lookup(number string) (string, bool) {
	v := m.view.Load()
	if !v.enabled || !v.auth.Granted() {
		return "", false
	}
	return v.snap.Lookup(m.norm.Normalize(number))
}

// Resolve looks up each number and reports the normalized key alongside the result.
func (m *Manager) Resolve(numbers []string) []schema.LookupResult {
	results := make([]schema.LookupResult, 0, len(numbers))
	for _, n := range numbers {
		name, ok := m.Lookup(n)
		results = append(results, schema.LookupResult{
			Number: n,
			Key:    m.norm.Normalize(n),
			Name:   name,
			Found:  ok,
		})
	}
	return results
}

// Status returns the current observable state.
func (m *Manager) Status() schema.ManagerStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// Subscribe returns a channel receiving the status after every transition and
// a cancel func that closes it. Slow readers miss intermediate updates.
func (m *Manager) Subscribe(buffer int) (<-chan schema.ManagerStatus, func()) {
	return m.notify.subscribe(buffer)
}

// InitializeOnLaunch reads the persisted preference once. When it is set and
// access is granted, one build is attempted; its failure leaves the snapshot
// empty and is only reported through Status.
func (m *Manager) InitializeOnLaunch(ctx context.Context) error {
	m.mu.Lock()
	if m.launched {
		m.mu.Unlock()
		return contract.ErrNoOp
	}
	m.launched = true
	if m.inflight != nil || m.state != schema.DisabledState {
		// Enable or Disable already ran; the stored preference is stale.
		m.mu.Unlock()
		return contract.ErrNoOp
	}

	enabled, err := m.prefs.Load()
	if err != nil {
		err = fmt.Errorf("load preference: %w", err)
		m.lastErr = err
		m.emitLocked()
		m.mu.Unlock()
		return err
	}
	m.enabled = enabled
	m.auth = m.gate.CurrentStatus()
	if !enabled {
		m.state = schema.DisabledState
		m.publishLocked(snapshot.Empty())
		m.emitLocked()
		m.mu.Unlock()
		return nil
	}

	m.state = schema.EnabledState
	m.publishLocked(snapshot.Empty())
	if !m.auth.Granted() {
		m.lastErr = contract.ErrPermissionDenied
		m.emitLocked()
		m.mu.Unlock()
		return nil
	}
	if m.deferLaunch {
		m.emitLocked()
		m.mu.Unlock()
		return nil
	}
	f := m.beginLocked(schema.EnabledState, schema.LaunchTrigger)
	m.mu.Unlock()

	if err := m.run(ctx, f); err != nil {
		log.WithError(err).Warn("launch build failed; will retry on next refresh")
	}
	return nil
}

// Enable requests directory access and builds the cache. The preference is
// persisted only after the first build succeeds.
func (m *Manager) Enable(ctx context.Context) error {
	live, err := m.lockIdle(ctx)
	if err != nil {
		return err
	}
	if live != nil {
		if m.state == schema.EnablingState {
			return m.joinLocked(ctx, live)
		}
		m.mu.Unlock()
		return contract.ErrNoOp
	}
	if m.state == schema.EnabledState && m.auth.Granted() {
		m.mu.Unlock()
		return contract.ErrNoOp
	}
	f := m.beginLocked(schema.EnablingState, schema.EnableTrigger)
	m.mu.Unlock()

	return m.run(ctx, f)
}

// Refresh rebuilds the cache. A failed refresh keeps the last good snapshot.
// A refresh requested while another build runs waits for that build instead.
func (m *Manager) Refresh(ctx context.Context) error {
	live, err := m.lockIdle(ctx)
	if err != nil {
		return err
	}
	if live != nil {
		return m.joinLocked(ctx, live)
	}
	if m.state != schema.EnabledState {
		m.mu.Unlock()
		return contract.ErrNoOp
	}
	f := m.beginLocked(schema.RefreshingState, schema.RefreshTrigger)
	m.mu.Unlock()

	return m.run(ctx, f)
}

// Disable clears the preference and the snapshot immediately. A build still
// running keeps going, but its result is dropped at commit.
func (m *Manager) Disable(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled && m.state == schema.DisabledState {
		return contract.ErrNoOp
	}

	m.generation++
	m.enabled = false
	m.publishLocked(snapshot.Empty())

	if err := m.prefs.Save(false); err != nil {
		m.state = schema.ErrorState
		m.lastErr = fmt.Errorf("persist preference: %w", err)
		m.emitLocked()
		return m.lastErr
	}
	m.state = schema.DisabledState
	m.lastErr = nil
	m.emitLocked()
	log.Debug("contact cache disabled")
	return nil
}

// lockIdle returns with mu held once no superseded build is still running.
// The returned flight, if any, belongs to the current generation.
func (m *Manager) lockIdle(ctx context.Context) (*flight, error) {
	for {
		m.mu.Lock()
		f := m.inflight
		if f == nil || f.gen == m.generation {
			return f, nil
		}
		m.mu.Unlock()
		select {
		case <-f.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// joinLocked releases mu and waits for the live build.
func (m *Manager) joinLocked(ctx context.Context, f *flight) error {
	f.waiters++
	log.WithFields(log.Fields{"trigger": f.trigger, "waiters": f.waiters}).Debug("coalesced into in-flight build")
	m.mu.Unlock()
	return f.wait(ctx)
}

func (m *Manager) beginLocked(state schema.ManagerState, trigger schema.BuildTrigger) *flight {
	f := &flight{
		trigger: trigger,
		gen:     m.generation,
		done:    make(chan struct{}),
	}
	m.inflight = f
	m.state = state
	m.emitLocked()
	return f
}

// run performs the build for f and commits it. It is the only place that enumerates.
func (m *Manager) run(ctx context.Context, f *flight) error {
	rec := schema.BuildRun{RunID: uuid.NewString(), Trigger: f.trigger, StartTime: m.now()}

	var granted bool
	if f.trigger == schema.EnableTrigger {
		granted = m.gate.RequestAccess(ctx)
	} else {
		granted = m.gate.CurrentStatus().Granted()
	}
	status := m.gate.CurrentStatus()
	granted = granted && status.Granted()

	var (
		snap    *snapshot.Snapshot
		buildErr error
	)
	if !granted {
		buildErr = contract.ErrPermissionDenied
	} else {
		records, err := m.source.Enumerate(ctx)
		if err != nil {
			buildErr = fmt.Errorf("%w: %w", contract.ErrEnumeration, err)
		} else {
			snap = snapshot.Build(records, m.norm)
		}
	}

	m.mu.Lock()
	outcome, err := m.commitLocked(f, status, snap, buildErr)
	if m.inflight == f {
		m.inflight = nil
	}
	f.err = err
	close(f.done)
	m.emitLocked()
	m.mu.Unlock()

	rec.EndTime = m.now()
	rec.Outcome = outcome
	if snap != nil {
		rec.Contacts = snap.Contacts()
		rec.Entries = snap.Len()
		rec.Conflicts = snap.Conflicts()
	}
	if err != nil {
		rec.Error = err.Error()
	}
	m.record(rec)
	return err
}

// commitLocked applies a finished build. Results from a superseded generation
// or for a cache that is no longer enabled and authorized are discarded.
func (m *Manager) commitLocked(f *flight, status schema.AuthorizationStatus, snap *snapshot.Snapshot, buildErr error) (schema.BuildOutcome, error) {
	if f.gen != m.generation {
		log.WithField("trigger", f.trigger).Debug("discarding superseded build")
		return schema.BuildDiscarded, nil
	}
	m.auth = status

	fields := log.Fields{"trigger": f.trigger, "auth": status}
	if f.trigger == schema.EnableTrigger {
		if buildErr != nil {
			// A preference restored at launch survives a failed re-enable.
			m.state = schema.DisabledState
			if m.enabled {
				m.state = schema.EnabledState
			}
			m.lastErr = buildErr
			m.publishLocked(snapshot.Empty())
			log.WithFields(fields).WithError(buildErr).Warn("enable failed")
			return outcomeFor(buildErr), buildErr
		}
		if err := m.prefs.Save(true); err != nil {
			m.state = schema.DisabledState
			m.lastErr = fmt.Errorf("persist preference: %w", err)
			m.publishLocked(snapshot.Empty())
			return schema.BuildFailed, m.lastErr
		}
		m.enabled = true
	}

	m.state = schema.EnabledState
	switch {
	case errors.Is(buildErr, contract.ErrPermissionDenied):
		// Access was revoked: nothing may stay resolvable.
		m.lastErr = buildErr
		m.publishLocked(snapshot.Empty())
		log.WithFields(fields).Warn("contact access revoked")
		return schema.BuildDenied, buildErr
	case buildErr != nil:
		// Keep whatever was published before.
		m.lastErr = buildErr
		log.WithFields(fields).WithError(buildErr).Warn("refresh failed; keeping previous snapshot")
		return schema.BuildFailed, buildErr
	case !m.enabled || !m.auth.Granted():
		return schema.BuildDiscarded, nil
	}

	m.lastErr = nil
	m.lastBuild = m.now()
	m.publishLocked(snap)
	fields["entries"] = snap.Len()
	fields["conflicts"] = snap.Conflicts()
	log.WithFields(fields).Debug("published contact snapshot")
	return schema.BuildPublished, nil
}

func outcomeFor(err error) schema.BuildOutcome {
	if errors.Is(err, contract.ErrPermissionDenied) {
		return schema.BuildDenied
	}
	return schema.BuildFailed
}

func (m *Manager) record(rec schema.BuildRun) {
	if m.history == nil {
		return
	}
	if err := m.history.RecordBuild(rec); err != nil {
		log.WithError(err).WithField("run_id", rec.RunID).Warn("failed to record build history")
	}
}

// publishLocked swaps in a new view built from the current flags and snap.
func (m *Manager) publishLocked(snap *snapshot.Snapshot) {
	m.view.Store(&view{snap: snap, enabled: m.enabled, auth: m.auth})
}

func (m *Manager) statusLocked() schema.ManagerStatus {
	st := schema.ManagerStatus{
		State:         m.state,
		Enabled:       m.enabled,
		Authorization: m.auth,
		Loading:       m.inflight != nil && m.inflight.gen == m.generation,
		Entries:       m.view.Load().snap.Len(),
		LastBuild:     m.lastBuild,
	}
	if m.lastErr != nil {
		st.LastError = m.lastErr.Error()
	}
	return st
}

func (m *Manager) emitLocked() {
	m.notify.publish(m.statusLocked())
}
