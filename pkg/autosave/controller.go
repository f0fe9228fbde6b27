// Package autosave owns the save-synchronization policy for canvas
// documents: debouncing bursts of local edits, suppressing empty and
// unchanged snapshots, serializing writes per document, and retrying
// transient store failures.
package autosave

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/boxed-dev/remalt-sub004/pkg/eventbus"
	"github.com/boxed-dev/remalt-sub004/pkg/events"
	"github.com/boxed-dev/remalt-sub004/pkg/models"
	"github.com/boxed-dev/remalt-sub004/pkg/otelhelper"
	"github.com/boxed-dev/remalt-sub004/pkg/persistence"
	"github.com/boxed-dev/remalt-sub004/pkg/validation"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultDebounceWindow = 2000 * time.Millisecond
	DefaultMaxAttempts    = 3
	DefaultRetryDelay     = 2000 * time.Millisecond
)

// Options configures a Controller. Zero values fall back to the defaults
// above; Logger falls back to slog.Default.
type Options struct {
	DebounceWindow time.Duration
	MaxAttempts    int
	Retry          Strategy
	Logger         *slog.Logger
	Publisher      eventbus.EventPublisher
	Tracer         trace.Tracer
	OnStatus       StatusFunc
}

// docState is the per-document bookkeeping. Guarded by Controller.mu.
type docState struct {
	timer       *time.Timer
	latest      *models.Workflow
	lastSaved   *models.Workflow
	lastSavedAt *time.Time
	inflight    bool
	state       SaveState
}

// Controller persists the most recent valid, non-empty, changed snapshot of
// each observed document. Snapshots handed to it are cloned and treated as
// immutable. A trigger call never returns an error and never panics; every
// failure path resolves into a status update.
type Controller struct {
	store     persistence.Persistence
	validator *validation.Validator
	logger    *slog.Logger
	publisher eventbus.EventPublisher
	tracer    trace.Tracer
	onStatus  StatusFunc

	window      time.Duration
	maxAttempts int
	retry       Strategy

	mu   sync.Mutex
	docs map[string]*docState
}

// NewController creates a save controller over the given store and
// validator.
func NewController(store persistence.Persistence, validator *validation.Validator, opts Options) *Controller {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}

	if opts.Retry == nil {
		opts.Retry = NewConstant(DefaultRetryDelay)
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Controller{
		store:       store,
		validator:   validator,
		logger:      opts.Logger.With("module", "autosave"),
		publisher:   opts.Publisher,
		tracer:      opts.Tracer,
		onStatus:    opts.OnStatus,
		window:      opts.DebounceWindow,
		maxAttempts: opts.MaxAttempts,
		retry:       opts.Retry,
		docs:        make(map[string]*docState),
	}
}

// doc returns the state for id, creating it on first trigger. Caller holds mu.
func (c *Controller) doc(id string) *docState {
	ds, ok := c.docs[id]
	if !ok {
		ds = &docState{state: StateIdle}
		c.docs[id] = ds
	}

	return ds
}

// Observe registers a new snapshot of the document and (re)starts its
// debounce window. Each call cancels the previous pending task and schedules
// a new one; only the snapshot still current when the window elapses is
// considered for a write.
func (c *Controller) Observe(workflow *models.Workflow) {
	if workflow == nil || workflow.ID == "" {
		c.logger.Warn("ignoring snapshot without an id")

		return
	}

	snapshot := workflow.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	ds := c.doc(snapshot.ID)
	ds.latest = snapshot

	if ds.timer != nil {
		ds.timer.Stop()
	}

	if ds.state == StateIdle {
		ds.state = StatePending
	}

	ds.timer = time.AfterFunc(c.window, func() {
		c.flush(snapshot.ID)
	})
}

// Save persists the given snapshot immediately, bypassing the debounce
// window. It is still subject to empty suppression, no-op suppression, the
// per-document lock and the validation gate. Blocks until the save settles.
func (c *Controller) Save(ctx context.Context, workflow *models.Workflow) {
	if workflow == nil || workflow.ID == "" {
		c.logger.Warn("ignoring manual save without an id")

		return
	}

	snapshot := workflow.Clone()

	c.mu.Lock()
	ds := c.doc(snapshot.ID)
	ds.latest = snapshot

	if ds.timer != nil {
		ds.timer.Stop()
		ds.timer = nil
	}
	c.mu.Unlock()

	c.attemptSave(ctx, snapshot)
}

// NotifyVisibility triggers an immediate un-debounced save for every
// document with unsaved, non-empty changes and no write in flight when the
// host goes hidden. Visible transitions are ignored.
func (c *Controller) NotifyVisibility(hidden bool) {
	if !hidden {
		return
	}

	c.mu.Lock()

	candidates := make([]*models.Workflow, 0)

	for _, ds := range c.docs {
		if ds.latest == nil || ds.inflight || ds.latest.IsEmpty() {
			continue
		}

		if models.Equal(ds.latest, ds.lastSaved) {
			continue
		}

		if ds.timer != nil {
			ds.timer.Stop()
			ds.timer = nil
		}

		candidates = append(candidates, ds.latest)
	}
	c.mu.Unlock()

	for _, snapshot := range candidates {
		c.attemptSave(context.Background(), snapshot)
	}
}

// WatchVisibility consumes the visibility monitor's hidden signal until the
// channel closes or ctx is cancelled.
func (c *Controller) WatchVisibility(ctx context.Context, hidden <-chan bool) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case isHidden, ok := <-hidden:
				if !ok {
					return
				}

				c.NotifyVisibility(isHidden)
			}
		}
	}()
}

// State returns the document's current position in the save state machine.
func (c *Controller) State(id string) SaveState {
	c.mu.Lock()
	defer c.mu.Unlock()

	ds, ok := c.docs[id]
	if !ok {
		return StateIdle
	}

	return ds.state
}

// LastSaved returns the last successfully persisted snapshot for id, or nil.
func (c *Controller) LastSaved(id string) *models.Workflow {
	c.mu.Lock()
	defer c.mu.Unlock()

	ds, ok := c.docs[id]
	if !ok {
		return nil
	}

	return ds.lastSaved
}

// Stop cancels every pending debounce task. In-flight writes run to
// completion; there is no cooperative cancellation of a started write.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ds := range c.docs {
		if ds.timer != nil {
			ds.timer.Stop()
			ds.timer = nil
		}

		if ds.state == StatePending {
			ds.state = StateIdle
		}
	}
}

// flush runs when a document's debounce window elapses. The write is
// deliberately detached from any caller context: retries must survive the
// discarding of the context that scheduled them.
func (c *Controller) flush(id string) {
	c.mu.Lock()
	ds := c.doc(id)
	ds.timer = nil
	snapshot := ds.latest
	c.mu.Unlock()

	c.attemptSave(context.Background(), snapshot)
}

// attemptSave pushes one snapshot through the gate sequence: empty
// suppression, lock acquisition with no-op suppression, validation, then the
// bounded write loop.
func (c *Controller) attemptSave(ctx context.Context, snapshot *models.Workflow) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("save attempt panicked", "panic", r)
		}
	}()

	if snapshot == nil {
		return
	}

	id := snapshot.ID

	if snapshot.IsEmpty() {
		// Skipped entirely: no network call, no status change.
		c.setState(id, StateIdle)

		return
	}

	// The lock must be taken before any asynchronous step; the in-flight
	// and no-op checks happen under the same lock acquisition to close the
	// check-then-act race.
	c.mu.Lock()
	ds := c.doc(id)

	if ds.inflight {
		c.mu.Unlock()
		c.logger.Debug("write already in flight, dropping trigger", "workflow_id", id)

		return
	}

	if models.Equal(snapshot, ds.lastSaved) {
		ds.state = StateIdle
		c.mu.Unlock()

		return
	}

	ds.inflight = true
	ds.state = StateValidating
	lastSavedAt := ds.lastSavedAt
	c.mu.Unlock()

	if issues := c.validator.Validate(snapshot); len(issues) > 0 {
		reason := "document failed validation: " + validation.Summary(issues)

		c.release(id, StateIdle)
		c.logger.Warn("rejecting invalid snapshot", "workflow_id", id, "issues", len(issues))
		c.report(id, Status{Err: reason, LastSavedAt: lastSavedAt})
		c.publishFailed(ctx, snapshot, reason, false)

		return
	}

	c.setState(id, StateSaving)
	c.report(id, Status{Saving: true, LastSavedAt: lastSavedAt})

	for attempt := 1; ; attempt++ {
		persisted, err := c.writeOnce(ctx, snapshot, attempt)
		if err == nil {
			savedAt := persisted.UpdatedAt

			c.mu.Lock()
			ds := c.doc(id)
			ds.lastSaved = snapshot
			ds.lastSavedAt = &savedAt
			ds.inflight = false
			ds.state = StateIdle
			c.mu.Unlock()

			c.logger.Info("workflow saved", "workflow_id", id, "nodes", len(snapshot.Nodes), "attempt", attempt)
			c.report(id, Status{LastSavedAt: &savedAt})
			c.publishSaved(ctx, snapshot, savedAt)

			return
		}

		if !persistence.IsTransient(err) || attempt >= c.maxAttempts {
			reason := fmt.Sprintf("failed to save workflow after %d attempt(s): %v", attempt, err)

			c.release(id, StateIdle)
			c.logger.Error("save failed", "workflow_id", id, "attempts", attempt, "error", err)
			c.report(id, Status{Err: reason, LastSavedAt: lastSavedAt})
			c.publishFailed(ctx, snapshot, reason, attempt > 1)

			return
		}

		c.logger.Warn("transient save failure, will retry",
			"workflow_id", id, "attempt", attempt, "error", err)

		// Release between attempts so a fresh attempt re-acquires the lock.
		c.release(id, StateRetryWait)
		time.Sleep(c.retry.Delay(attempt))

		if !c.tryAcquire(id) {
			// Another trigger is persisting fresher state; abandoning this
			// retry preserves per-document exclusivity.
			c.logger.Debug("lock contended during retry, abandoning", "workflow_id", id)

			return
		}

		c.setState(id, StateSaving)
	}
}

// writeOnce performs a single upsert and post-write verification.
func (c *Controller) writeOnce(ctx context.Context, snapshot *models.Workflow, attempt int) (*models.Workflow, error) {
	var span trace.Span

	if c.tracer != nil {
		ctx, span = otelhelper.StartSpan(ctx, c.tracer, "autosave.upsert",
			attribute.String(otelhelper.WorkflowIDKey, snapshot.ID),
			attribute.Int(otelhelper.NodeCountKey, len(snapshot.Nodes)),
			attribute.Int(otelhelper.SaveAttemptKey, attempt),
		)
		defer span.End()
	}

	persisted, err := c.store.UpsertWorkflow(ctx, snapshot)
	if err != nil {
		otelhelper.SetError(span, err,
			attribute.Bool(otelhelper.SaveTransientKey, persistence.IsTransient(err)))

		return nil, err
	}

	if persisted == nil || persisted.ID != snapshot.ID {
		err := persistence.NewPermanentError("identity_mismatch",
			fmt.Errorf("store returned a record for a different document"))

		otelhelper.SetError(span, err,
			attribute.Bool(otelhelper.SaveTransientKey, false))

		return nil, err
	}

	if len(persisted.Nodes) != len(snapshot.Nodes) {
		// Non-fatal: the write stands, but the discrepancy is worth a trace.
		c.logger.Warn("persisted node count differs from request",
			"workflow_id", snapshot.ID,
			"sent", len(snapshot.Nodes),
			"persisted", len(persisted.Nodes))
	}

	return persisted, nil
}

func (c *Controller) tryAcquire(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ds := c.doc(id)
	if ds.inflight {
		return false
	}

	ds.inflight = true

	return true
}

// release clears the in-flight flag unconditionally and moves the state
// machine to next.
func (c *Controller) release(id string, next SaveState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ds := c.doc(id)
	ds.inflight = false
	ds.state = next
}

func (c *Controller) setState(id string, state SaveState) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.doc(id).state = state
}

func (c *Controller) report(id string, status Status) {
	if c.onStatus == nil {
		return
	}

	c.onStatus(id, status)
}

func (c *Controller) publishSaved(ctx context.Context, snapshot *models.Workflow, savedAt time.Time) {
	if c.publisher == nil {
		return
	}

	event := events.WorkflowSaved{
		BaseEvent: events.BaseEvent{
			ID:         uuid.New().String(),
			Type:       events.WorkflowSavedEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: snapshot.ID,
			UserID:     snapshot.UserID,
		},
		NodeCount: len(snapshot.Nodes),
		EdgeCount: len(snapshot.Edges),
		SavedAt:   savedAt,
	}

	if err := c.publisher.Publish(ctx, snapshot.ID, event); err != nil {
		c.logger.Warn("failed to publish saved event", "workflow_id", snapshot.ID, "error", err)
	}
}

func (c *Controller) publishFailed(ctx context.Context, snapshot *models.Workflow, reason string, retried bool) {
	if c.publisher == nil {
		return
	}

	event := events.WorkflowSaveFailed{
		BaseEvent: events.BaseEvent{
			ID:         uuid.New().String(),
			Type:       events.WorkflowSaveFailedEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: snapshot.ID,
			UserID:     snapshot.UserID,
		},
		Reason:  reason,
		Retried: retried,
	}

	if err := c.publisher.Publish(ctx, snapshot.ID, event); err != nil {
		c.logger.Warn("failed to publish save-failed event", "workflow_id", snapshot.ID, "error", err)
	}
}
