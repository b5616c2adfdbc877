package runtime

import (
	"sync"

	"github.com/wippyai/varnam-abi/errors"
)

// SessionID identifies an open session. Zero is never issued.
type SessionID int32

// OperationID names a cancellable request. Identifiers are chosen by the
// caller and only need to be unique among requests in flight.
type OperationID int32

type session struct {
	producer Producer
	id       SessionID

	mu      sync.Mutex
	lastErr error
}

// record stores the outcome of the latest operation and returns err.
func (s *session) record(err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	return err
}

func (s *session) last() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (r *Runtime) session(id SessionID) (*session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "runtime")
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRuntime, "session", id)
	}
	return s, nil
}

// Open registers p as a new session. Configurable producers receive the
// runtime's engine configuration first.
func (r *Runtime) Open(p Producer) (SessionID, error) {
	if p == nil {
		return 0, errors.NilPointer(errors.PhaseRuntime, nil, "producer")
	}
	if c, ok := p.(Configurable); ok {
		if err := c.Configure(r.cfg.Engine); err != nil {
			return 0, errors.Engine("configure", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, errors.NotInitialized(errors.PhaseRuntime, "runtime")
	}
	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return 0, errors.New(errors.PhaseRuntime, errors.KindAllocation).
			Value(r.cfg.MaxSessions).
			Detail("session limit %d reached", r.cfg.MaxSessions).
			Build()
	}

	r.nextID++
	id := r.nextID
	r.sessions[id] = &session{id: id, producer: p}
	Logger().Debug("session opened", zapSession(id))
	return id, nil
}

// CloseSession forgets a session. Records it produced stay valid until
// their owners destroy them.
func (r *Runtime) CloseSession(id SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return errors.NotFound(errors.PhaseRuntime, "session", id)
	}
	delete(r.sessions, id)
	Logger().Debug("session closed", zapSession(id))
	return nil
}

// LastError returns the error of the most recent operation on the
// session, or nil when that operation succeeded.
func (r *Runtime) LastError(id SessionID) error {
	s, err := r.session(id)
	if err != nil {
		return err
	}
	return s.last()
}

// Sessions returns the number of open sessions.
func (r *Runtime) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
