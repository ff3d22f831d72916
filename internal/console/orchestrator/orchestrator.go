// Package orchestrator coordinates one collection's requests: it runs mutations
// against the gateway, keeps the EntityStore in step and discards stale fetches.
package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/console/notify"
	"github.com/yigit/schooladmin/internal/console/store"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// ErrStale is reported by a fetch whose result was superseded by a newer fetch.
var ErrStale = errors.New("fetch superseded by a newer request")

// Gateway is the remote side of one collection.
type Gateway[T any, C any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, body C) (T, error)
	Update(ctx context.Context, id int64, patch P) (T, error)
	Delete(ctx context.Context, id int64) error
}

// State is the mutation state machine.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Options tune an Orchestrator. All fields are optional.
type Options[C any, P any] struct {
	// ValidateCreate and ValidateUpdate reject bad input before anything is sent.
	ValidateCreate func(C) error
	ValidateUpdate func(P) error
	// OnUnauthorized is called when the server rejects the credential.
	OnUnauthorized func(error)
	// Bridge receives notices after each terminal event.
	Bridge *notify.Bridge
	Logger *zerolog.Logger
}

// Pending is a handle on a request running in the background.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Done is closed when the request has completed and its effects are applied.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the request completes and returns its error.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}

// Orchestrator owns the state transitions of one EntityStore. T is the entity,
// C the create payload and P the patch payload.
type Orchestrator[T store.Entity, C any, P any] struct {
	store   *store.EntityStore[T]
	gateway Gateway[T, C, P]
	opts    Options[C, P]
	logger  zerolog.Logger

	mu       sync.Mutex
	state    State
	last     State
	seq      uint64
	inflight sync.WaitGroup
}

// New returns an idle orchestrator over s and gw.
func New[T store.Entity, C any, P any](s *store.EntityStore[T], gw Gateway[T, C, P], opts Options[C, P]) *Orchestrator[T, C, P] {
	lgr := logger.Component("orchestrator")
	if opts.Logger != nil {
		lgr = *opts.Logger
	}
	return &Orchestrator[T, C, P]{
		store:   s,
		gateway: gw,
		opts:    opts,
		logger:  lgr,
		state:   StateIdle,
		last:    StateIdle,
	}
}

// Store returns the store this orchestrator drives.
func (o *Orchestrator[T, C, P]) Store() *store.EntityStore[T] {
	return o.store
}

// State returns the current mutation state.
func (o *Orchestrator[T, C, P]) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastResult returns how the most recent mutation ended, or StateIdle if none has.
func (o *Orchestrator[T, C, P]) LastResult() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Wait blocks until no fetch or mutation is in flight.
func (o *Orchestrator[T, C, P]) Wait() {
	o.inflight.Wait()
}

// Refresh starts a fetch. Only the most recently started fetch may update the
// store; an older one that completes later resolves with ErrStale.
func (o *Orchestrator[T, C, P]) Refresh(ctx context.Context) *Pending {
	o.mu.Lock()
	p := o.startFetchLocked(ctx)
	o.mu.Unlock()
	return p
}

func (o *Orchestrator[T, C, P]) startFetchLocked(ctx context.Context) *Pending {
	o.seq++
	token := o.seq
	o.store.BeginLoad()

	p := newPending()
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		items, err := o.gateway.List(ctx)
		p.resolve(o.completeFetch(token, items, err))
	}()
	return p
}

func (o *Orchestrator[T, C, P]) completeFetch(token uint64, items []T, err error) error {
	o.mu.Lock()
	if token != o.seq {
		o.mu.Unlock()
		o.logger.Debug().Uint64("token", token).Msg("discarding stale fetch")
		return ErrStale
	}

	if err == nil {
		o.store.ResolveLoad(items)
		o.mu.Unlock()
		return nil
	}

	if apperrors.KindOf(err) == apperrors.KindAuthorization {
		o.store.CancelLoad()
		o.mu.Unlock()
		o.unauthorized(err)
		return err
	}

	o.store.FailLoad(err.Error())
	o.mu.Unlock()
	o.flush()
	return err
}

// Create validates body and submits it.
func (o *Orchestrator[T, C, P]) Create(ctx context.Context, body C) (*Pending, error) {
	if o.opts.ValidateCreate != nil {
		if err := o.opts.ValidateCreate(body); err != nil {
			return nil, err
		}
	}
	return o.submit(ctx, store.OutcomeCreated, func() (func() error, error) {
		item, err := o.gateway.Create(ctx, body)
		return func() error { return o.store.ApplyCreated(item) }, err
	})
}

// Update validates patch and submits it for id.
func (o *Orchestrator[T, C, P]) Update(ctx context.Context, id int64, patch P) (*Pending, error) {
	if o.opts.ValidateUpdate != nil {
		if err := o.opts.ValidateUpdate(patch); err != nil {
			return nil, err
		}
	}
	return o.submit(ctx, store.OutcomeUpdated, func() (func() error, error) {
		item, err := o.gateway.Update(ctx, id, patch)
		return func() error { return o.store.ApplyUpdated(item) }, err
	})
}

// Delete submits a delete for id.
func (o *Orchestrator[T, C, P]) Delete(ctx context.Context, id int64) (*Pending, error) {
	return o.submit(ctx, store.OutcomeDeleted, func() (func() error, error) {
		err := o.gateway.Delete(ctx, id)
		return func() error { return o.store.ApplyDeleted(id) }, err
	})
}

// submit runs call in the background. call performs the request and returns the
// store update to apply on success; outcome is what that update records.
func (o *Orchestrator[T, C, P]) submit(ctx context.Context, outcome store.Outcome, call func() (func() error, error)) (*Pending, error) {
	o.mu.Lock()
	if o.state == StateSubmitting {
		o.mu.Unlock()
		return nil, apperrors.ErrBusy
	}
	o.state = StateSubmitting
	o.store.BeginLoad()
	o.mu.Unlock()

	p := newPending()
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		apply, err := call()
		if err != nil {
			p.resolve(o.fail(ctx, err))
			return
		}
		o.succeed(ctx, outcome, apply)
		p.resolve(nil)
	}()
	return p, nil
}

func (o *Orchestrator[T, C, P]) succeed(ctx context.Context, outcome store.Outcome, apply func() error) {
	o.mu.Lock()
	if err := apply(); err != nil {
		// A fetch already delivered the server's state.
		o.logger.Debug().Err(err).Str("outcome", string(outcome)).Msg("mutation already reflected locally")
		o.store.RecordOutcome(outcome)
	}
	o.startFetchLocked(ctx)
	o.state = StateIdle
	o.last = StateSucceeded
	o.mu.Unlock()

	o.flush()
}

func (o *Orchestrator[T, C, P]) fail(ctx context.Context, err error) error {
	kind := apperrors.KindOf(err)

	o.mu.Lock()
	o.state = StateIdle
	o.last = StateFailed
	switch kind {
	case apperrors.KindValidation:
		o.store.CancelLoad()
		o.mu.Unlock()
		return err
	case apperrors.KindAuthorization:
		o.store.CancelLoad()
		o.mu.Unlock()
		o.unauthorized(err)
		return err
	}

	o.store.FailLoad(err.Error())
	if kind == apperrors.KindNotFound {
		o.startFetchLocked(ctx)
	}
	o.mu.Unlock()

	o.logger.Debug().Err(err).Str("kind", string(kind)).Msg("mutation failed")
	o.flush()
	return err
}

func (o *Orchestrator[T, C, P]) flush() {
	if o.opts.Bridge != nil {
		o.opts.Bridge.Flush(o.store)
	}
}

func (o *Orchestrator[T, C, P]) unauthorized(err error) {
	if o.opts.OnUnauthorized != nil {
		o.opts.OnUnauthorized(err)
	}
}
