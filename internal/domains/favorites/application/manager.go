package application

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Apurer/cat-haven/internal/domains/favorites/domain"
	"github.com/Apurer/cat-haven/internal/domains/favorites/ports"
)

const tracerName = "github.com/Apurer/cat-haven/internal/domains/favorites/application"

// Manager holds the favorites of one session and keeps them in sync with the local
// device store (anonymous) or the durable per-user store (signed in).
//
// Toggles are optimistic: remote write failures are logged and never rolled back.
// Every identity change starts a new load tagged with a generation; only the load for
// the most recent identity is applied.
//
// Subscribers receive snapshots one at a time in the order the set changed. They must not
// call Toggle from inside their callback.
type Manager struct {
	remote ports.DurableStore
	local  ports.LocalStore
	logger *slog.Logger
	tracer trace.Tracer

	// deliver is held from a state change until its listeners returned.
	deliver sync.Mutex

	mu         sync.Mutex
	items      domain.FavoriteSet
	session    domain.SessionContext
	generation uint64
	loading    bool
	listeners  map[uint64]func([]domain.ItemID)
	nextID     uint64
	lastWrite  chan struct{}
	closed     bool

	inflight sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithTracer injects a tracer for load and persistence spans.
func WithTracer(tr trace.Tracer) Option {
	return func(m *Manager) { m.tracer = tr }
}

// NewManager wires a manager in the unresolved state with an empty favorite set.
func NewManager(remote ports.DurableStore, local ports.LocalStore, opts ...Option) *Manager {
	m := &Manager{
		remote:    remote,
		local:     local,
		session:   domain.Unresolved(),
		listeners: map[uint64]func([]domain.ItemID){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.remote == nil {
		m.remote = unconfiguredStore{}
	}
	if m.local == nil {
		m.local = unconfiguredStore{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.tracer == nil {
		m.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return m
}

// IsFavorite reports whether id is in the current favorite set.
func (m *Manager) IsFavorite(id domain.ItemID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.Contains(id)
}

// FavoriteIDs returns the favorites in insertion order.
func (m *Manager) FavoriteIDs() []domain.ItemID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items.IDs()
}

// Session returns the identity context favorites are currently bound to.
func (m *Manager) Session() domain.SessionContext {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Loading reports whether a load for the current session is still in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Toggle flips the membership of id and returns the new membership.
//
// Signed-out sessions overwrite the local store synchronously. Signed-in sessions issue a
// single remote insert or remove in the background; remote writes of one manager are
// applied in toggle order and outlive the caller's context cancellation.
func (m *Manager) Toggle(ctx context.Context, id domain.ItemID) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	m.deliver.Lock()
	defer m.deliver.Unlock()

	m.mu.Lock()
	if m.closed {
		current := m.items.Contains(id)
		m.mu.Unlock()
		m.logger.LogAttrs(ctx, slog.LevelWarn, "toggle ignored, favorites manager is closed", slog.String("item.id", string(id)))
		return current
	}
	added := m.items.Toggle(id)
	session := m.session
	snapshot := m.items.IDs()
	if session.IsAuthenticated() {
		m.enqueueRemoteLocked(context.WithoutCancel(ctx), session.UserID, id, added)
	} else {
		m.writeLocal(ctx, snapshot)
	}
	listeners := m.listenersLocked()
	m.mu.Unlock()

	notify(listeners, snapshot)
	return added
}

// SetIdentity moves the manager to the session context of identity and reloads favorites
// for it. Notifications for the context that is already active, and any notification
// after Close, are ignored.
func (m *Manager) SetIdentity(ctx context.Context, identity *domain.Identity) {
	if ctx == nil {
		ctx = context.Background()
	}
	next := domain.ContextFor(identity)

	m.mu.Lock()
	if m.closed || (m.session.Resolved() && m.session.Equal(next)) {
		m.mu.Unlock()
		return
	}
	m.session = next
	m.generation++
	generation := m.generation
	m.loading = true
	m.inflight.Add(1)
	m.mu.Unlock()

	m.logger.LogAttrs(ctx, slog.LevelInfo, "favorites session changed",
		slog.String("session", next.String()),
		slog.Uint64("generation", generation),
	)
	go m.load(context.WithoutCancel(ctx), generation, next)
}

// Bind subscribes the manager to identity changes reported by provider.
func (m *Manager) Bind(provider ports.IdentityProvider) (unbind func()) {
	if provider == nil {
		return func() {}
	}
	return provider.Subscribe(func(identity *domain.Identity) {
		m.SetIdentity(context.Background(), identity)
	})
}

// Subscribe registers fn to receive the favorite ids after every toggle and applied load.
func (m *Manager) Subscribe(fn func([]domain.ItemID)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// Wait blocks until in-flight loads and remote writes have completed.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

// Close stops the manager from starting loads or remote writes and waits for the ones
// already in flight. Toggles after Close leave the set unchanged.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.inflight.Wait()
}

func (m *Manager) load(ctx context.Context, generation uint64, session domain.SessionContext) {
	defer m.inflight.Done()
	ctx, span := m.tracer.Start(ctx, "favorites.Manager.load", trace.WithAttributes(
		attribute.String("favorites.session", session.String()),
		attribute.Int64("favorites.generation", int64(generation)),
	))
	defer span.End()

	var items domain.FavoriteSet
	if session.IsAuthenticated() {
		items = m.loadMerged(ctx, session.UserID)
	} else {
		items = domain.NewFavoriteSet(m.readLocal(ctx)...)
	}

	m.deliver.Lock()
	defer m.deliver.Unlock()

	m.mu.Lock()
	if generation != m.generation {
		m.mu.Unlock()
		span.SetAttributes(attribute.Bool("favorites.load.stale", true))
		m.logger.LogAttrs(ctx, slog.LevelDebug, "discarding stale favorites load",
			slog.String("session", session.String()),
			slog.Uint64("generation", generation),
		)
		return
	}
	m.items = items
	m.loading = false
	snapshot := m.items.IDs()
	listeners := m.listenersLocked()
	m.mu.Unlock()

	span.SetAttributes(attribute.Int("favorites.count", len(snapshot)))
	notify(listeners, snapshot)
}

// loadMerged reads the remote list and the local cache concurrently and returns their
// union. Either side failing contributes nothing. The local cache is not modified.
func (m *Manager) loadMerged(ctx context.Context, userID string) domain.FavoriteSet {
	var remote, local []domain.ItemID
	var g errgroup.Group
	g.Go(func() error {
		ids, err := m.remote.List(ctx, userID)
		if err != nil {
			m.logError(ctx, "failed to list remote favorites, merging local favorites only", err, slog.String("user.id", userID))
			return nil
		}
		remote = ids
		return nil
	})
	g.Go(func() error {
		local = m.readLocal(ctx)
		return nil
	})
	_ = g.Wait()
	return domain.Merge(remote, local)
}

func (m *Manager) readLocal(ctx context.Context) []domain.ItemID {
	ids, err := m.local.Read()
	if err != nil {
		m.logError(ctx, "failed to read local favorites, treating as empty", err)
		return nil
	}
	return ids
}

func (m *Manager) writeLocal(ctx context.Context, ids []domain.ItemID) {
	if err := m.local.Write(ids); err != nil {
		m.logError(ctx, "failed to write local favorites", err, slog.Int("favorites.count", len(ids)))
	}
}

func (m *Manager) enqueueRemoteLocked(ctx context.Context, userID string, id domain.ItemID, added bool) {
	prev := m.lastWrite
	done := make(chan struct{})
	m.lastWrite = done
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		m.persistRemote(ctx, userID, id, added)
	}()
}

func (m *Manager) persistRemote(ctx context.Context, userID string, id domain.ItemID, added bool) {
	op := "remove"
	if added {
		op = "insert"
	}
	ctx, span := m.tracer.Start(ctx, "favorites.Manager.persist", trace.WithAttributes(
		attribute.String("favorites.op", op),
		attribute.String("favorites.item_id", string(id)),
	))
	defer span.End()

	var err error
	if added {
		err = m.remote.Insert(ctx, userID, id)
	} else {
		err = m.remote.Remove(ctx, userID, id)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logError(ctx, "failed to persist favorite remotely, keeping local state", err,
			slog.String("user.id", userID),
			slog.String("item.id", string(id)),
			slog.String("op", op),
		)
	}
}

func (m *Manager) listenersLocked() []func([]domain.ItemID) {
	if len(m.listeners) == 0 {
		return nil
	}
	out := make([]func([]domain.ItemID), 0, len(m.listeners))
	for _, fn := range m.listeners {
		out = append(out, fn)
	}
	return out
}

func (m *Manager) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	m.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func notify(listeners []func([]domain.ItemID), ids []domain.ItemID) {
	for _, fn := range listeners {
		fn(append([]domain.ItemID{}, ids...))
	}
}

type unconfiguredStore struct{}

func (unconfiguredStore) List(context.Context, string) ([]domain.ItemID, error) {
	return nil, ports.ErrNotConfigured
}

func (unconfiguredStore) Insert(context.Context, string, domain.ItemID) error {
	return ports.ErrNotConfigured
}

func (unconfiguredStore) Remove(context.Context, string, domain.ItemID) error {
	return ports.ErrNotConfigured
}

func (unconfiguredStore) Read() ([]domain.ItemID, error) { return nil, nil }

func (unconfiguredStore) Write([]domain.ItemID) error { return nil }

var _ ports.Service = (*Manager)(nil)
