package service

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

const (
	defaultDeviceCapacity = 10000
	defaultDeviceIdle     = 30 * time.Minute
)

// Devices keeps one SessionStore per device (browser). Each store persists
// under "<prefix>:<deviceID>", so the single-session rule holds per device.
//
// Stores are cached in a bounded LRU whose entries expire after an idle
// period. The slot stays the source of truth: an evicted store is restored
// from it on next use.
type Devices struct {
	slot     ports.SessionSlot
	prefix   string
	log      zerolog.Logger
	capacity int
	idle     time.Duration

	mu     sync.Mutex
	stores *expirable.LRU[string, *SessionStore]
}

// DevicesOption customises Devices.
type DevicesOption func(*Devices)

// WithDeviceCapacity caps how many device stores are cached.
func WithDeviceCapacity(n int) DevicesOption {
	return func(d *Devices) {
		if n > 0 {
			d.capacity = n
		}
	}
}

// WithDeviceIdle sets how long an unused device store stays cached.
func WithDeviceIdle(ttl time.Duration) DevicesOption {
	return func(d *Devices) {
		if ttl > 0 {
			d.idle = ttl
		}
	}
}

func NewDevices(slot ports.SessionSlot, prefix string, log zerolog.Logger, opts ...DevicesOption) *Devices {
	if prefix == "" {
		prefix = DefaultSessionKey
	}
	d := &Devices{
		slot:     slot,
		prefix:   prefix,
		log:      log,
		capacity: defaultDeviceCapacity,
		idle:     defaultDeviceIdle,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.stores = expirable.NewLRU[string, *SessionStore](d.capacity, nil, d.idle)
	return d
}

// Store returns the device's store, restoring it from the slot on first use.
// An unreadable slot returns ErrSessionPersistence and caches nothing, so the
// next call retries the restore. An empty deviceID maps to the bare prefix key.
func (d *Devices) Store(ctx context.Context, deviceID string) (*SessionStore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if st, ok := d.stores.Get(deviceID); ok {
		d.stores.Add(deviceID, st)
		return st, nil
	}
	st, err := OpenSessionStore(ctx, d.slot, d.key(deviceID), d.log.With().Str("device_id", deviceID).Logger())
	if err != nil {
		return nil, err
	}
	d.stores.Add(deviceID, st)
	return st, nil
}

// Session reads the device's current session. A device with nothing persisted
// is answered from the slot without caching a store for it.
func (d *Devices) Session(ctx context.Context, deviceID string) (*domain.Session, error) {
	d.mu.Lock()
	st, ok := d.stores.Get(deviceID)
	d.mu.Unlock()
	if ok {
		return st.Current(), nil
	}

	st, err := OpenSessionStore(ctx, d.slot, d.key(deviceID), d.log.With().Str("device_id", deviceID).Logger())
	if err != nil {
		return nil, err
	}
	sess := st.Current()
	if sess == nil {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if cached, ok := d.stores.Get(deviceID); ok {
		return cached.Current(), nil
	}
	d.stores.Add(deviceID, st)
	return sess, nil
}

// Len reports how many device stores are cached.
func (d *Devices) Len() int {
	return d.stores.Len()
}

func (d *Devices) key(deviceID string) string {
	if deviceID == "" {
		return d.prefix
	}
	return d.prefix + ":" + deviceID
}

// Portal wires the registry, per-device stores and the route table together.
// It implements ports.AuthService and ports.NavigationService.
type Portal struct {
	registry ports.CredentialRegistry
	devices  *Devices
	routes   *RouteTable
	ids      *SubjectIDs
	observe  func(domain.SessionEvent)
	log      zerolog.Logger
}

var (
	_ ports.AuthService       = (*Portal)(nil)
	_ ports.NavigationService = (*Portal)(nil)
)

func NewPortal(registry ports.CredentialRegistry, devices *Devices, routes *RouteTable, observe func(domain.SessionEvent), log zerolog.Logger) *Portal {
	if routes == nil {
		routes = NewRouteTable(DefaultRoutes()...)
	}
	return &Portal{
		registry: registry,
		devices:  devices,
		routes:   routes,
		ids:      NewSubjectIDs(nil),
		observe:  observe,
		log:      log,
	}
}

// Authenticator returns an authenticator bound to the device's store.
func (p *Portal) Authenticator(ctx context.Context, deviceID string) (*Authenticator, error) {
	store, err := p.devices.Store(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return NewAuthenticator(
		p.registry,
		store,
		p.log.With().Str("device_id", deviceID).Logger(),
		WithSubjectIDs(p.ids),
		WithObserver(p.observe),
		WithDeviceID(deviceID),
	), nil
}

func (p *Portal) Login(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
	auth, err := p.Authenticator(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return auth.Login(ctx, email, password)
}

func (p *Portal) Register(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error) {
	auth, err := p.Authenticator(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return auth.Register(ctx, email, password, displayName)
}

func (p *Portal) LoginWithExternalIdentity(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error) {
	auth, err := p.Authenticator(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	return auth.LoginWithExternalIdentity(ctx, identity)
}

// Logout signs the device out. A device with no session is left alone.
func (p *Portal) Logout(ctx context.Context, deviceID string) error {
	sess, err := p.devices.Session(ctx, deviceID)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}
	auth, err := p.Authenticator(ctx, deviceID)
	if err != nil {
		return err
	}
	return auth.Logout(ctx)
}

func (p *Portal) Current(ctx context.Context, deviceID string) (*domain.Session, error) {
	return p.devices.Session(ctx, deviceID)
}

// Navigate resolves path and runs the access guard against the device's session.
func (p *Portal) Navigate(ctx context.Context, deviceID, path string) (domain.Route, domain.Decision, error) {
	route := p.routes.Resolve(path)
	sess, err := p.devices.Session(ctx, deviceID)
	if err != nil {
		return route, domain.Decision{}, err
	}
	return route, Decide(sess, route), nil
}

// Routes exposes the route table to identity consumers.
func (p *Portal) Routes() *RouteTable { return p.routes }
