package store

import (
	"sync"

	"go.uber.org/zap"

	"stellarburger/internal/api"
	"stellarburger/internal/construction"
	"stellarburger/internal/credentials"
	"stellarburger/internal/logging"
	"stellarburger/internal/monitoring"
	"stellarburger/internal/orders"
	"stellarburger/internal/session"
)

// Store owns the application state. Reductions are serialized; effects run on
// the caller's goroutine.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int
	reduced   uint64

	// notify orders listener calls by reduction ticket
	notify    sync.Mutex
	turn      *sync.Cond
	delivered uint64

	client      api.Client
	credentials credentials.Store
	session     *session.Effects
	orders      *orders.Effects
	ids         construction.IDSource

	logger  *zap.Logger
	monitor *monitoring.Monitor
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(logger) }
}

// WithMonitor records dispatches and operations on m.
func WithMonitor(m *monitoring.Monitor) Option {
	return func(s *Store) { s.monitor = m }
}

// WithIDSource replaces the construction instance id generator.
func WithIDSource(ids construction.IDSource) Option {
	return func(s *Store) { s.ids = ids }
}

// New creates a store over the backend client and the credential store.
func New(client api.Client, creds credentials.Store, opts ...Option) *Store {
	sessionEffects := session.NewEffects(client, creds)
	s := &Store{
		state:       Initial(),
		listeners:   make(map[int]func(State)),
		client:      client,
		credentials: creds,
		session:     sessionEffects,
		orders:      &orders.Effects{API: client, Refresher: sessionEffects.Refresher},
		ids:         construction.UUIDSource{},
		logger:      zap.NewNop(),
	}
	s.turn = sync.NewCond(&s.notify)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a and notifies subscribers with the resulting snapshot.
// Notifications are delivered in reduction order and never overlap.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	snapshot := s.state
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.reduced++
	ticket := s.reduced
	s.mu.Unlock()

	s.monitor.RecordAction(sliceOf(a), a.ActionName())
	s.logger.Debug("dispatch", zap.String("slice", sliceOf(a)), zap.String("action", a.ActionName()))

	s.notify.Lock()
	defer s.notify.Unlock()
	for s.delivered+1 != ticket {
		s.turn.Wait()
	}
	defer func() {
		s.delivered = ticket
		s.turn.Broadcast()
	}()
	for _, l := range listeners {
		l(snapshot)
	}
}

// Subscribe registers fn to run after every dispatch. The returned function
// removes it. fn may read the store but must not dispatch.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

// Select reads one value out of the current snapshot.
func Select[T any](s *Store, selector func(State) T) T {
	return selector(s.State())
}
