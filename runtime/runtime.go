package runtime

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/varnam-abi/engine"
	"github.com/wippyai/varnam-abi/errors"
	"github.com/wippyai/varnam-abi/resource"
	"github.com/wippyai/varnam-abi/result"
	"github.com/wippyai/varnam-abi/transcoder"
)

// Runtime hosts transliteration sessions and owns every record exported
// to consumers. Exported records live in a handle table; records placed
// in linear memory are released from the engine heap when their handle
// is destroyed.
type Runtime struct {
	engine   *engine.WazeroEngine
	table    *resource.UnifiedTable
	encoder  *transcoder.Encoder
	releaser *transcoder.Releaser
	cfg      Config

	mu       sync.RWMutex
	sessions map[SessionID]*session
	nextID   SessionID
	closed   bool

	opsMu sync.Mutex
	ops   map[OperationID]*operation
}

// operation is one in-flight request registered under an id. Ids are
// reusable, so cleanup compares entries rather than ids.
type operation struct {
	cancel context.CancelFunc
}

func New(ctx context.Context) (*Runtime, error) {
	return NewWithConfig(ctx, DefaultConfig())
}

// NewWithConfig creates a runtime whose linear memory follows cfg.
func NewWithConfig(ctx context.Context, cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	target, _ := cfg.Target()

	eng, err := engine.NewWazeroEngineWithConfig(ctx, &engine.Config{
		MemoryLimitPages: cfg.MemoryLimitPages,
	})
	if err != nil {
		return nil, errors.Load("create engine", err)
	}

	r := &Runtime{
		engine:   eng,
		encoder:  transcoder.NewEncoder(target),
		releaser: transcoder.NewReleaser(target),
		cfg:      cfg,
		sessions: make(map[SessionID]*session),
		ops:      make(map[OperationID]*operation),
	}
	r.table = resource.NewTable(resource.WithRepReleaser(r.releaseRep))
	r.table.Subscribe(logObserver{})
	return r, nil
}

func (r *Runtime) releaseRep(kind result.Kind, rep uint32) error {
	return r.releaser.ReleaseRecord(kind, rep, r.engine.Memory(), r.engine.Heap())
}

// Close cancels requests in flight, destroys every exported record and
// releases the engine. Calling Close twice is a no-op.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.sessions = make(map[SessionID]*session)
	r.mu.Unlock()

	r.opsMu.Lock()
	for id, op := range r.ops {
		op.cancel()
		delete(r.ops, id)
	}
	r.opsMu.Unlock()

	if err := r.table.Close(); err != nil {
		_ = r.engine.Close(ctx)
		return err
	}
	return r.engine.Close(ctx)
}

// Config returns the runtime configuration.
func (r *Runtime) Config() Config { return r.cfg }

// Engine returns the engine whose memory holds exported records.
func (r *Runtime) Engine() *engine.WazeroEngine { return r.engine }

// Table returns the handle table of exported records.
func (r *Runtime) Table() *resource.UnifiedTable { return r.table }

// Encoder returns the encoder matching the runtime's layout.
func (r *Runtime) Encoder() *transcoder.Encoder { return r.encoder }

// Transliterate asks the session's producer for word and builds a fresh
// result the caller owns. It returns a nil result when ctx is done before
// the result is built.
func (r *Runtime) Transliterate(ctx context.Context, id SessionID, word string) (*result.TransliterationResult, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, err
	}
	res, err := r.transliterate(ctx, s, 0, word)
	return res, s.record(err)
}

// TransliterateWithID is Transliterate registered under opID so that
// Cancel(opID) can abandon it. A cancelled request returns a nil result
// and a canceled error, whether or not the producer has finished.
func (r *Runtime) TransliterateWithID(ctx context.Context, id SessionID, opID OperationID, word string) (*result.TransliterationResult, error) {
	s, err := r.session(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.opsMu.Lock()
	if _, busy := r.ops[opID]; busy {
		r.opsMu.Unlock()
		return nil, s.record(errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Value(opID).
			Detail("operation %d already in flight", opID).
			Build())
	}
	op := &operation{cancel: cancel}
	r.ops[opID] = op
	r.opsMu.Unlock()

	defer func() {
		r.opsMu.Lock()
		if r.ops[opID] == op {
			delete(r.ops, opID)
		}
		r.opsMu.Unlock()
	}()

	type reply struct {
		out Output
		err error
	}
	done := make(chan reply, 1)
	go func() {
		out, err := s.producer.TransliterateAdvanced(ctx, word)
		done <- reply{out, err}
	}()

	select {
	case <-ctx.Done():
		Logger().Debug("transliteration cancelled", zapSession(id), zap.Int32("operation", int32(opID)))
		return nil, s.record(errors.Canceled(opID, ctx.Err()))
	case rep := <-done:
		if rep.err != nil {
			return nil, s.record(r.producerErr(ctx, opID, "transliterate", rep.err))
		}
		res := BuildResult(ctx, rep.out)
		if res == nil {
			return nil, s.record(errors.Canceled(opID, ctx.Err()))
		}
		return res, s.record(nil)
	}
}

// TransliterateCallback builds the result for word and hands it to fn
// before returning. fn is called at most once, never after a failure,
// and takes ownership of the result.
func (r *Runtime) TransliterateCallback(ctx context.Context, id SessionID, word string, fn func(*result.TransliterationResult)) error {
	if fn == nil {
		return errors.NilPointer(errors.PhaseRuntime, nil, "callback")
	}
	s, err := r.session(id)
	if err != nil {
		return err
	}
	res, err := r.transliterate(ctx, s, 0, word)
	if err != nil {
		return s.record(err)
	}
	fn(res)
	return s.record(nil)
}

// Cancel abandons the request registered under opID. Cancelling an
// unknown or finished operation reports StatusError.
func (r *Runtime) Cancel(opID OperationID) errors.Status {
	r.opsMu.Lock()
	op, ok := r.ops[opID]
	delete(r.ops, opID)
	r.opsMu.Unlock()

	if !ok {
		Logger().Debug("cancel of unknown operation", zap.Int32("operation", int32(opID)))
		return errors.StatusError
	}
	op.cancel()
	return errors.StatusSuccess
}

func (r *Runtime) transliterate(ctx context.Context, s *session, opID OperationID, word string) (*result.TransliterationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Canceled(opID, err)
	}
	out, err := s.producer.TransliterateAdvanced(ctx, word)
	if err != nil {
		return nil, r.producerErr(ctx, opID, "transliterate", err)
	}
	res := BuildResult(ctx, out)
	if res == nil {
		return nil, errors.Canceled(opID, ctx.Err())
	}
	return res, nil
}

func (r *Runtime) producerErr(ctx context.Context, opID OperationID, op string, err error) error {
	if ctx.Err() != nil {
		return errors.Canceled(opID, err)
	}
	return errors.Engine(op, err)
}

// Export places rec in the handle table. The table owns rec from now on;
// Destroy releases it.
func (r *Runtime) Export(rec result.Record) (resource.Handle, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	return r.table.Insert(rec)
}

// ExportToMemory encodes rec into the runtime's linear memory with enc
// and exports it. The record address is kept as the handle's
// representation and freed by Destroy. enc must use the runtime layout;
// a nil enc selects the runtime's own encoder.
func (r *Runtime) ExportToMemory(enc *transcoder.Encoder, rec result.Record) (resource.Handle, uint32, error) {
	if err := r.checkOpen(); err != nil {
		return 0, 0, err
	}
	if enc == nil {
		enc = r.encoder
	}
	if got, want := enc.Layouts().Target(), r.encoder.Layouts().Target(); got != want {
		return 0, 0, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(got.Name).
			Detail("encoder layout %s does not match runtime layout %s", got.Name, want.Name).
			Build()
	}

	addr, err := enc.EncodeRecord(rec, r.engine.Memory(), r.engine.Heap())
	if err != nil {
		return 0, 0, err
	}
	h, err := r.table.InsertWithRep(rec, addr)
	if err != nil {
		_ = r.releaseRep(rec.Kind(), addr)
		return 0, 0, err
	}
	return h, addr, nil
}

// Lookup returns the live record behind h.
func (r *Runtime) Lookup(h resource.Handle) (result.Record, error) {
	if err := r.table.Check(h); err != nil {
		return nil, err
	}
	rec, _ := r.table.Get(h)
	return rec, nil
}

// Destroy releases the record behind h and its memory representation.
// Destroying a handle twice, or one that was never issued, reports
// StatusMisuse.
func (r *Runtime) Destroy(h resource.Handle) errors.Status {
	err := r.table.Destroy(h)
	if err != nil {
		Logger().Warn("destroy failed", zap.Uint32("handle", uint32(h)), zap.Error(err))
	}
	return errors.StatusOf(err)
}

func (r *Runtime) checkOpen() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return errors.NotInitialized(errors.PhaseRuntime, "runtime")
	}
	return nil
}

// logObserver traces handle lifecycle events.
type logObserver struct{}

func (logObserver) OnResourceEvent(e resource.Event) {
	Logger().Debug("record "+e.Type.String(),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Stringer("kind", e.Kind),
		zap.Uint32("rep", e.Rep))
}

func zapSession(id SessionID) zap.Field {
	return zap.Int32("session", int32(id))
}
