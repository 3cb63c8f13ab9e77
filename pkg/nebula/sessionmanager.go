package nebula

import (
	"context"
	"sync"

	"github.com/nebula-contrib/nebula-go/pkg/graph"
	"github.com/nebula-contrib/nebula-go/pkg/ntrans"
	"github.com/nebula-contrib/nebula-go/pkg/ntype"
)

// ConnectionManager is the session-lifecycle contract a pool drives: dial
// a fresh session, decide whether a pooled session is still usable
// before handing it out, and decide whether a returned session must be
// dropped instead of recycled. This mirrors bb8::ManageConnection's
// connect/is_valid/has_broken trio exactly; there is no Go library in
// this stack offering an equivalent generic pool contract, so it is
// hand-rolled here rather than borrowed.
type ConnectionManager interface {
	Connect(ctx context.Context) (*Session, error)
	IsValid(ctx context.Context, s *Session) error
	HasBroken(s *Session) bool
}

// SessionManager dials, authenticates, and optionally USEs a default
// space for a fresh Session, cycling hosts round-robin across
// concurrent callers (grounded on single_conn_session_manager.rs's
// SingleConnSessionConf + SingleConnSessionManager split).
type SessionManager struct {
	config  *SessionConfig
	metrics *Metrics
}

// NewSessionManager builds a SessionManager bound to a SessionConfig.
func NewSessionManager(config *SessionConfig) *SessionManager {
	return &SessionManager{config: config}
}

// SetMetrics wires metrics into this manager; every Session it hands
// out is instrumented with it, and a nil value (the default) disables
// instrumentation entirely. Returns the manager for chaining.
func (m *SessionManager) SetMetrics(metrics *Metrics) *SessionManager {
	m.metrics = metrics
	return m
}

// GetSession performs the full acquisition flow: pick the next host
// round-robin, dial a transport, authenticate, build a Session, and
// issue USE <space> if the config names a default space.
func (m *SessionManager) GetSession(ctx context.Context) (*Session, error) {
	addr := m.config.GetNextAddr()

	opts := ntrans.Options{
		BufSize:                    m.config.BufSize,
		MaxBufSize:                 m.config.MaxBufSize,
		MaxParseResponseBytesCount: m.config.MaxParseResponseBytesCount,
		ReadTimeout:                m.config.ReadTimeout,
	}
	transport, err := ntrans.Dial(ctx, addr.String(), opts)
	if err != nil {
		return nil, &TransportBuildError{Addr: addr.String(), Cause: err}
	}

	client := graph.NewServiceClient(transport)
	authResp, err := client.Authenticate(ctx, []byte(m.config.Username), []byte(m.config.Password))
	if err != nil {
		_ = transport.Close()
		return nil, &AuthenticateError{Code: -1, Msg: err.Error()}
	}
	if authResp.ErrorCode != ntype.ErrSucceeded {
		_ = transport.Close()
		msg := string(authResp.ErrorMsg)
		if msg == "" {
			msg = "Unknown"
		}
		return nil, &AuthenticateError{Code: int32(authResp.ErrorCode), Msg: msg}
	}
	if authResp.SessionID == nil {
		_ = transport.Close()
		return nil, graph.ErrMissingSessionID
	}

	session := NewSession(transport, client, *authResp.SessionID, TimezoneInfo{}).SetMetrics(m.metrics)

	if m.config.Space != nil {
		if _, err := session.Execute(ctx, "USE "+*m.config.Space+";"); err != nil {
			_ = session.Close(ctx)
			return nil, err
		}
	}
	return session, nil
}

// Connect implements ConnectionManager.
func (m *SessionManager) Connect(ctx context.Context) (*Session, error) { return m.GetSession(ctx) }

// IsValid implements ConnectionManager. The source manager never pings
// a pooled connection before handing it out; it trusts HasBroken's
// close_required flag exclusively.
func (m *SessionManager) IsValid(ctx context.Context, s *Session) error { return nil }

// HasBroken implements ConnectionManager.
func (m *SessionManager) HasBroken(s *Session) bool { return s.IsCloseRequired() }

// Pool is a small fixed-capacity session pool built on ConnectionManager.
// Sessions are created lazily up to capacity and recycled through a
// buffered channel; a session HasBroken reports true for is dropped
// instead of returned to the channel.
type Pool struct {
	manager  ConnectionManager
	capacity int
	metrics  *Metrics

	mu    sync.Mutex
	count int
	idle  chan *Session
}

// NewPool builds a Pool with the given capacity.
func NewPool(manager ConnectionManager, capacity int) *Pool {
	return &Pool{manager: manager, capacity: capacity, idle: make(chan *Session, capacity)}
}

// SetMetrics wires metrics into this pool's PoolActive/PoolIdle gauges;
// a nil value (the default) disables instrumentation. Returns the pool
// for chaining.
func (p *Pool) SetMetrics(metrics *Metrics) *Pool {
	p.metrics = metrics
	return p
}

// reportGauges publishes the current checked-out/idle session counts.
func (p *Pool) reportGauges() {
	if p.metrics == nil {
		return
	}
	p.mu.Lock()
	count := p.count
	p.mu.Unlock()
	idle := len(p.idle)
	p.metrics.PoolIdle.Set(float64(idle))
	p.metrics.PoolActive.Set(float64(count - idle))
}

// Get returns an idle session if one is available, otherwise dials a
// new one if the pool has not reached capacity, otherwise blocks for an
// idle session or ctx cancellation.
func (p *Pool) Get(ctx context.Context) (*Session, error) {
	select {
	case s := <-p.idle:
		if p.manager.HasBroken(s) {
			p.mu.Lock()
			p.count--
			p.mu.Unlock()
			p.reportGauges()
			return p.Get(ctx)
		}
		p.reportGauges()
		return s, nil
	default:
	}

	p.mu.Lock()
	if p.count < p.capacity {
		p.count++
		p.mu.Unlock()
		s, err := p.manager.Connect(ctx)
		if err != nil {
			p.mu.Lock()
			p.count--
			p.mu.Unlock()
			p.reportGauges()
			return nil, err
		}
		p.reportGauges()
		return s, nil
	}
	p.mu.Unlock()

	select {
	case s := <-p.idle:
		if p.manager.HasBroken(s) {
			p.mu.Lock()
			p.count--
			p.mu.Unlock()
			p.reportGauges()
			return p.Get(ctx)
		}
		p.reportGauges()
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Put returns a session to the pool, or drops it (and its slot) if it
// HasBroken.
func (p *Pool) Put(ctx context.Context, s *Session) {
	if p.manager.HasBroken(s) {
		_ = s.Close(ctx)
		p.mu.Lock()
		p.count--
		p.mu.Unlock()
		p.reportGauges()
		return
	}
	select {
	case p.idle <- s:
	default:
		_ = s.Close(ctx)
		p.mu.Lock()
		p.count--
		p.mu.Unlock()
	}
	p.reportGauges()
}
