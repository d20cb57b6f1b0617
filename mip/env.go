package mip

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Backend is the solver seam. Implementations turn a Model into a
// Solution; infeasibility and unboundedness are statuses, not errors.
type Backend interface {
	Name() string
	Solve(ctx context.Context, m *Model, p Params) (*Solution, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithLogger routes Env logging to l. The default discards everything.
func WithLogger(l logrus.FieldLogger) EnvOption {
	return func(e *Env) {
		if l != nil {
			e.log = l
		}
	}
}

// WithParams overrides DefaultParams.
func WithParams(p Params) EnvOption {
	return func(e *Env) { e.params = p }
}

// Env is a solver session. It is acquired with NewEnv around one
// formulate-and-solve call and released with Close.
type Env struct {
	id      uuid.UUID
	backend Backend
	params  Params
	log     logrus.FieldLogger

	mu     sync.Mutex
	closed bool
	solves int
}

// NewEnv opens a session on backend b.
func NewEnv(b Backend, opts ...EnvOption) (*Env, error) {
	if b == nil {
		return nil, ErrNoBackend
	}
	e := &Env{
		id:      uuid.New(),
		backend: b,
		params:  DefaultParams(),
		log:     discardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.params = e.params.withDefaults()
	e.log = e.log.WithFields(logrus.Fields{
		"env_id":  e.id.String(),
		"backend": b.Name(),
	})
	e.log.Debug("environment opened")

	return e, nil
}

// ID returns the session id used in log fields.
func (e *Env) ID() uuid.UUID { return e.id }

// Params returns the effective parameters.
func (e *Env) Params() Params { return e.params }

// Solve validates m and hands it to the backend. A backend panic is
// converted to an error wrapping ErrBackendPanic.
func (e *Env) Solve(ctx context.Context, m *Model) (sol *Solution, err error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEnvClosed
	}
	e.solves++
	e.mu.Unlock()

	if m == nil {
		return nil, ErrNilModel
	}
	if err = m.Validate(); err != nil {
		return nil, err
	}

	log := e.log.WithFields(logrus.Fields{
		"model":       m.Name(),
		"vars":        m.NumVars(),
		"constraints": m.NumConstraints(),
	})
	log.Info("solving")

	defer func() {
		if r := recover(); r != nil {
			sol = nil
			err = errors.Wrap(ErrBackendPanic, fmt.Sprint(r))
			log.WithField("panic", r).Error("backend panicked")
		}
	}()

	start := time.Now()
	sol, err = e.backend.Solve(ctx, m, e.params)
	if err != nil {
		log.WithError(err).Error("solve failed")
		return nil, errors.Wrapf(err, "backend %s", e.backend.Name())
	}
	if sol == nil {
		return nil, errors.Errorf("backend %s returned no solution", e.backend.Name())
	}
	if sol.Elapsed == 0 {
		sol.Elapsed = time.Since(start)
	}
	if sol.Backend == "" {
		sol.Backend = e.backend.Name()
	}
	log.WithFields(logrus.Fields{
		"status":    sol.Status.String(),
		"objective": sol.Objective,
		"nodes":     sol.Nodes,
		"elapsed":   sol.Elapsed,
	}).Info("solve finished")

	return sol, nil
}

// Close releases the session. It is safe to call more than once.
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.log.WithField("solves", e.solves).Debug("environment closed")

	return nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard

	return l
}
