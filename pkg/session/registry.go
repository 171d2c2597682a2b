package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrSessionActive rejects a second session start for an attempt whose
// loops are still running.
var ErrSessionActive = errors.New("session: already active for attempt")

// ErrSessionNotFound is returned for operations on unknown attempts.
var ErrSessionNotFound = errors.New("session: not found")

// Factory builds a controller for an attempt when its session starts.
type Factory func(studentId, attemptId uuid.UUID) *Controller

// StopHook runs after a controller reaches a terminal status, letting
// the composition root drop feeds and release aggregator state.
type StopHook func(studentId, attemptId uuid.UUID, status Status)

// Registry tracks live controllers with a TTL. A session that outlives
// its TTL without being stopped is treated as disconnected and cleaned
// up by the cache's eviction pass.
type Registry struct {
	cache   *gocache.Cache
	factory Factory
	onStop  StopHook
}

func NewRegistry(ttl time.Duration, factory Factory, onStop StopHook) *Registry {
	c := gocache.New(ttl, ttl/4)
	r := &Registry{
		cache:   c,
		factory: factory,
		onStop:  onStop,
	}
	c.OnEvicted(func(key string, value interface{}) {
		ctrl, ok := value.(*Controller)
		if !ok {
			return
		}
		// Explicit stops already transitioned the controller; expired
		// sessions are still running and become disconnected here.
		final := ctrl.Stop(StatusDisconnected)
		if r.onStop != nil {
			r.onStop(ctrl.StudentId(), ctrl.AttemptId(), final)
		}
	})
	return r
}

// Start builds and launches a controller for the attempt.
func (r *Registry) Start(ctx context.Context, studentId, attemptId uuid.UUID) error {
	key := attemptId.String()
	if _, found := r.cache.Get(key); found {
		return ErrSessionActive
	}

	ctrl := r.factory(studentId, attemptId)
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	if err := r.cache.Add(key, ctrl, gocache.DefaultExpiration); err != nil {
		// Lost the race to a concurrent start.
		ctrl.Stop(StatusDisconnected)
		return ErrSessionActive
	}
	return nil
}

// Get returns the live controller for an attempt.
func (r *Registry) Get(attemptId uuid.UUID) (*Controller, bool) {
	v, found := r.cache.Get(attemptId.String())
	if !found {
		return nil, false
	}
	ctrl, ok := v.(*Controller)
	return ctrl, ok
}

// Stop ends the attempt's session with the given status. The eviction
// hook still fires on delete but sees an already stopped controller.
func (r *Registry) Stop(attemptId uuid.UUID, status Status) (Status, error) {
	ctrl, found := r.Get(attemptId)
	if !found {
		return "", ErrSessionNotFound
	}
	final := ctrl.Stop(status)
	r.cache.Delete(attemptId.String())
	return final, nil
}

// Touch extends a live session's TTL, called from activity endpoints.
func (r *Registry) Touch(attemptId uuid.UUID) {
	if ctrl, found := r.Get(attemptId); found {
		r.cache.Set(attemptId.String(), ctrl, gocache.DefaultExpiration)
	}
}

// Len reports how many sessions are live.
func (r *Registry) Len() int {
	return r.cache.ItemCount()
}
