// Package session keeps the client's authentication state: the persisted
// access token, the cached user, and a small pub/sub channel that the UI
// watches for changes.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mlodewijk/modcat/internal/client/api"
	"github.com/mlodewijk/modcat/internal/client/models"
	"github.com/mlodewijk/modcat/internal/client/repositories/localstore"
	"github.com/mlodewijk/modcat/internal/logging"
)

// tokenKey is the local-store key holding the raw access token.
const tokenKey = "access_token"

// ErrMutationInFlight is returned when a favorite mutation for the same
// module is already running.
var ErrMutationInFlight = errors.New("favorite mutation already in flight")

// Snapshot is the externally visible session state published on every change.
type Snapshot struct {
	LoggedIn bool
	User     *models.User
}

// Cache owns the session lifecycle. All state transitions go through it and
// each one is published to subscribers.
type Cache struct {
	api    api.Client
	store  localstore.Repository
	logger logging.Logger

	mu       sync.Mutex
	token    string
	user     *models.User
	inFlight map[string]bool

	subMu       sync.Mutex
	subscribers []chan Snapshot

	// now is a test seam for expiry checks.
	now func() time.Time
}

// NewCache constructs a session cache over the given API client and local store.
func NewCache(apiClient api.Client, store localstore.Repository, logger logging.Logger) *Cache {
	return &Cache{
		api:      apiClient,
		store:    store,
		logger:   logger.With("module", "session"),
		inFlight: make(map[string]bool),
		now:      time.Now,
	}
}

// Subscribe returns a channel receiving a Snapshot on every session change.
// The channel is buffered; a slow consumer misses intermediate snapshots
// rather than blocking mutations.
func (c *Cache) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 16)
	c.subMu.Lock()
	c.subscribers = append(c.subscribers, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Cache) publish() {
	snap := c.Current()
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Current returns the session state as of now.
func (c *Cache) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{LoggedIn: c.user != nil, User: c.user}
}

// Load restores the session from the local store on startup.
//
// No stored token means signed out. A stored token is first checked locally
// (payload decode, expiry) without touching the network; a stale token is
// discarded on the spot. A live token triggers an optimistic profile fetch:
// a 401 tears the session down, while any other failure (server down, etc.)
// keeps a minimal user rebuilt from the token claims so the UI can still
// show who is signed in.
func (c *Cache) Load(ctx context.Context) error {
	raw, err := c.store.Get(ctx, tokenKey)
	if err != nil {
		return err
	}
	if raw == nil {
		c.publish()
		return nil
	}

	token := string(raw)
	claims, err := decodeClaims(token)
	if err != nil || claims.expired(c.now()) {
		if err := c.store.Delete(ctx, tokenKey); err != nil {
			c.logger.Warn(ctx, "failed to drop stale token", "error", err.Error())
		}
		c.publish()
		return nil
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	c.api.SetAccessToken(token)

	user, err := c.api.Profile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			c.teardown(ctx)
			return nil
		}
		// Server unreachable or misbehaving: trust the token and fall back
		// to what the claims can tell us.
		c.logger.Warn(ctx, "profile fetch failed, using claims", "error", err.Error())
		c.mu.Lock()
		c.user = &models.User{Email: claims.Email}
		c.mu.Unlock()
		c.publish()
		return nil
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	c.publish()
	return nil
}

// Register creates an account and starts a session with the returned token.
func (c *Cache) Register(ctx context.Context, firstname, lastname, email, password string) error {
	result, err := c.api.Register(ctx, firstname, lastname, email, password)
	if err != nil {
		return err
	}
	return c.start(ctx, result)
}

// Login authenticates and starts a session with the returned token.
func (c *Cache) Login(ctx context.Context, email, password string) error {
	result, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.start(ctx, result)
}

func (c *Cache) start(ctx context.Context, result *models.AuthResult) error {
	if err := c.store.Set(ctx, tokenKey, []byte(result.AccessToken)); err != nil {
		return err
	}

	user := result.User
	c.mu.Lock()
	c.token = result.AccessToken
	c.user = &user
	c.mu.Unlock()
	c.api.SetAccessToken(result.AccessToken)
	c.publish()
	return nil
}

// Logout ends the session locally: the token is deleted from the store and
// the cached user cleared. The server is never called; the issued token
// simply runs out on its own.
func (c *Cache) Logout(ctx context.Context) error {
	c.teardown(ctx)
	return nil
}

func (c *Cache) teardown(ctx context.Context) {
	if err := c.store.Delete(ctx, tokenKey); err != nil {
		c.logger.Warn(ctx, "failed to delete token", "error", err.Error())
	}
	c.mu.Lock()
	c.token = ""
	c.user = nil
	c.mu.Unlock()
	c.api.SetAccessToken("")
	c.publish()
}

// RefreshProfile re-fetches the profile and updates the cached user.
func (c *Cache) RefreshProfile(ctx context.Context) (*models.User, error) {
	user, err := c.api.Profile(ctx)
	if err != nil {
		return nil, c.authFailure(ctx, err)
	}
	c.setUser(user)
	return user, nil
}

// UpdateEmail changes the account email and updates the cached user.
func (c *Cache) UpdateEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := c.api.UpdateEmail(ctx, email)
	if err != nil {
		return nil, c.authFailure(ctx, err)
	}
	c.setUser(user)
	return user, nil
}

// AddFavorite appends a module to the favorites via the API. Only one
// mutation per module runs at a time; a second concurrent call for the same
// module is rejected with ErrMutationInFlight.
func (c *Cache) AddFavorite(ctx context.Context, fav models.Favorite) (*models.User, error) {
	if err := c.acquire(fav.ModuleID); err != nil {
		return nil, err
	}
	defer c.release(fav.ModuleID)

	user, err := c.api.AddFavorite(ctx, fav)
	if err != nil {
		return nil, c.authFailure(ctx, err)
	}
	c.setUser(user)
	return user, nil
}

// RemoveFavorite drops a module from the favorites via the API. Guarded the
// same way as AddFavorite.
func (c *Cache) RemoveFavorite(ctx context.Context, moduleID string) (*models.User, error) {
	if err := c.acquire(moduleID); err != nil {
		return nil, err
	}
	defer c.release(moduleID)

	user, err := c.api.RemoveFavorite(ctx, moduleID)
	if err != nil {
		return nil, c.authFailure(ctx, err)
	}
	c.setUser(user)
	return user, nil
}

func (c *Cache) acquire(moduleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[moduleID] {
		return ErrMutationInFlight
	}
	c.inFlight[moduleID] = true
	return nil
}

func (c *Cache) release(moduleID string) {
	c.mu.Lock()
	delete(c.inFlight, moduleID)
	c.mu.Unlock()
}

func (c *Cache) setUser(user *models.User) {
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	c.publish()
}

// authFailure tears the session down when the server rejected our token.
// The in-flight guard never swallows this: an expired session ends
// immediately regardless of pending mutations.
func (c *Cache) authFailure(ctx context.Context, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		c.teardown(ctx)
	}
	return err
}
