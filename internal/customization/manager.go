package customization

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/atelier-storefront/pkg/debounce"
	pkgerrors "github.com/angelmondragon/atelier-storefront/pkg/errors"
	"github.com/angelmondragon/atelier-storefront/pkg/logger"
	"github.com/angelmondragon/atelier-storefront/pkg/metrics"
	"github.com/angelmondragon/atelier-storefront/pkg/storage"
)

// ManagerParams groups dependencies for the session manager.
type ManagerParams struct {
	Schemas      Provider
	Products     ProductSource
	Storage      *storage.Local
	Cart         CartSink
	Scheduler    debounce.Scheduler
	PriceDelay   time.Duration
	PersistDelay time.Duration
	IdleTTL      time.Duration
	Metrics      *metrics.Storefront
	Logger       *logger.Logger
	Clock        func() time.Time
}

// Manager owns at most one live session per client.
type Manager struct {
	params ManagerParams

	mu       sync.Mutex
	sessions map[string]*Session
	gates    map[string]*clientGate
}

// clientGate serializes Open for one client; refs counts holders and waiters.
type clientGate struct {
	mu   sync.Mutex
	refs int
}

func NewManager(params ManagerParams) (*Manager, error) {
	if params.Schemas == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "schema provider is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product source is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart sink is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Clock == nil {
		params.Clock = time.Now
	}
	return &Manager{
		params:   params,
		sessions: make(map[string]*Session),
		gates:    make(map[string]*clientGate),
	}, nil
}

// Open starts a session for productID. A live session for the same product is suspended
// and reopened so it resumes at step 1. A live session for another product that holds
// selections is only replaced when confirm is true. Opens for one client run one at a time.
func (m *Manager) Open(ctx context.Context, clientID string, productID int64, confirm bool) (*Session, error) {
	product, err := m.params.Products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Customizable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not customizable")
	}
	schema, err := m.params.Schemas.Schema(ctx, product.Category)
	if err != nil {
		return nil, err
	}

	unlock := m.lockClient(clientID)
	defer unlock()

	m.mu.Lock()
	existing := m.sessions[clientID]
	m.mu.Unlock()

	if existing != nil && !existing.Done() {
		if existing.ProductID() == productID {
			existing.Suspend()
		} else if !existing.Close(ctx, confirm) {
			return nil, confirmationRequired("an unfinished customization is open")
		}
	}

	session, err := OpenSession(ctx, SessionParams{
		ClientID:     clientID,
		Product:      product,
		Schema:       schema,
		Storage:      m.params.Storage.Client(clientID),
		Cart:         m.params.Cart,
		Scheduler:    m.params.Scheduler,
		PriceDelay:   m.params.PriceDelay,
		PersistDelay: m.params.PersistDelay,
		Metrics:      m.params.Metrics,
		Logger:       m.params.Logger,
		Clock:        m.params.Clock,
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[clientID] = session
	n := len(m.sessions)
	m.mu.Unlock()
	m.params.Metrics.SetActiveSessions(n)

	m.params.Logger.Info(m.params.Logger.WithProductID(m.params.Logger.WithClientID(ctx, clientID), productID), "customization session opened")
	return session, nil
}

// Get returns the client's live session.
func (m *Manager) Get(clientID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[clientID]
	if !ok || session.Done() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active customization session")
	}
	return session, nil
}

// Advance moves the client's session forward and releases it once completed.
func (m *Manager) Advance(ctx context.Context, clientID string) (*Session, *LineItem, error) {
	session, err := m.Get(clientID)
	if err != nil {
		return nil, nil, err
	}
	item, err := session.Advance(ctx)
	if err != nil {
		return session, nil, err
	}
	if item != nil {
		m.release(clientID, session)
	}
	return session, item, nil
}

// Close ends the client's session, asking for confirmation when selections would be lost.
func (m *Manager) Close(ctx context.Context, clientID string, confirm bool) error {
	session, err := m.Get(clientID)
	if err != nil {
		return err
	}
	if !session.Close(ctx, confirm) {
		return confirmationRequired("closing discards the current selections")
	}
	m.release(clientID, session)
	return nil
}

// Sweep suspends sessions idle for longer than the configured TTL, keeping their saved
// progress, and drops finished ones. It returns how many sessions were released.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	var stale []*Session
	for clientID, session := range m.sessions {
		idle := m.params.IdleTTL > 0 && now.Sub(session.LastActive()) > m.params.IdleTTL
		if session.Done() || idle {
			stale = append(stale, session)
			delete(m.sessions, clientID)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	for _, session := range stale {
		session.Suspend()
	}
	m.params.Metrics.SetActiveSessions(n)
	return len(stale)
}

// Run sweeps on every tick until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if released := m.Sweep(m.params.Clock()); released > 0 {
				m.params.Logger.Debug(m.params.Logger.WithField(ctx, "released", released), "idle customization sessions released")
			}
		}
	}
}

// Shutdown writes pending progress of every live session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Suspend()
	}
	m.params.Metrics.SetActiveSessions(0)
}

// Active returns the number of sessions held.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) release(clientID string, session *Session) {
	m.mu.Lock()
	if m.sessions[clientID] == session {
		delete(m.sessions, clientID)
	}
	n := len(m.sessions)
	m.mu.Unlock()
	m.params.Metrics.SetActiveSessions(n)
}

// lockClient blocks until the caller is the only Open in flight for clientID. The gate is
// taken before m.mu is used again, so the lock order stays gate, manager, session.
func (m *Manager) lockClient(clientID string) func() {
	m.mu.Lock()
	gate, ok := m.gates[clientID]
	if !ok {
		gate = &clientGate{}
		m.gates[clientID] = gate
	}
	gate.refs++
	m.mu.Unlock()

	gate.mu.Lock()
	return func() {
		gate.mu.Unlock()
		m.mu.Lock()
		gate.refs--
		if gate.refs == 0 {
			delete(m.gates, clientID)
		}
		m.mu.Unlock()
	}
}

func confirmationRequired(msg string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, msg).
		WithDetails(map[string]any{"requires_confirmation": true})
}
