package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlodewijk/modcat/internal/client/api"
	"github.com/mlodewijk/modcat/internal/client/models"
	"github.com/mlodewijk/modcat/internal/logging"
)

// --- fakes ---

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string][]byte{}
	return nil
}

type fakeAPI struct {
	mu    sync.Mutex
	token string

	profileUser *models.User
	profileErr  error
	profileHits int

	authResult *models.AuthResult
	authErr    error

	favUser *models.User
	favErr  error
	// favStarted/favRelease let a test hold a favorite call open.
	favStarted chan struct{}
	favRelease chan struct{}

	logoutHits int
}

func (f *fakeAPI) SetAccessToken(token string) {
	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
}

func (f *fakeAPI) accessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAPI) Register(ctx context.Context, firstname, lastname, email, password string) (*models.AuthResult, error) {
	return f.authResult, f.authErr
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	return f.authResult, f.authErr
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.logoutHits++
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) Profile(ctx context.Context) (*models.User, error) {
	f.mu.Lock()
	f.profileHits++
	f.mu.Unlock()
	return f.profileUser, f.profileErr
}

func (f *fakeAPI) UpdateEmail(ctx context.Context, email string) (*models.User, error) {
	return f.profileUser, f.profileErr
}

func (f *fakeAPI) AddFavorite(ctx context.Context, fav models.Favorite) (*models.User, error) {
	if f.favStarted != nil {
		f.favStarted <- struct{}{}
		<-f.favRelease
	}
	return f.favUser, f.favErr
}

func (f *fakeAPI) RemoveFavorite(ctx context.Context, moduleID string) (*models.User, error) {
	return f.favUser, f.favErr
}

// --- helpers ---

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func signToken(t *testing.T, email string, ttl time.Duration) string {
	t.Helper()
	claims := &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Email: email,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

// --- tests ---

func TestLoad_NoToken(t *testing.T) {
	apic := &fakeAPI{}
	cache := NewCache(apic, newMemStore(), testLogger())

	require.NoError(t, cache.Load(context.Background()))

	snap := cache.Current()
	assert.False(t, snap.LoggedIn)
	assert.Nil(t, snap.User)
	assert.Zero(t, apic.profileHits, "no network traffic without a token")
}

func TestLoad_ExpiredToken(t *testing.T) {
	apic := &fakeAPI{}
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), tokenKey, []byte(signToken(t, "a@b.nl", -time.Minute))))

	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Load(context.Background()))

	assert.False(t, cache.Current().LoggedIn)
	assert.Zero(t, apic.profileHits, "expired token is rejected locally")

	raw, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw, "stale token is dropped from the store")
}

func TestLoad_GarbageToken(t *testing.T) {
	apic := &fakeAPI{}
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), tokenKey, []byte("not-a-token")))

	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Load(context.Background()))

	assert.False(t, cache.Current().LoggedIn)
	assert.Zero(t, apic.profileHits)
}

func TestLoad_ProfileSuccess(t *testing.T) {
	apic := &fakeAPI{profileUser: &models.User{Firstname: "Milan", Email: "a@b.nl"}}
	store := newMemStore()
	token := signToken(t, "a@b.nl", time.Hour)
	require.NoError(t, store.Set(context.Background(), tokenKey, []byte(token)))

	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Load(context.Background()))

	snap := cache.Current()
	require.True(t, snap.LoggedIn)
	assert.Equal(t, "Milan", snap.User.Firstname)
	assert.Equal(t, token, apic.accessToken())
}

func TestLoad_ProfileUnauthorized_TearsDown(t *testing.T) {
	apic := &fakeAPI{profileErr: api.ErrUnauthorized}
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), tokenKey, []byte(signToken(t, "a@b.nl", time.Hour))))

	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Load(context.Background()))

	assert.False(t, cache.Current().LoggedIn)
	assert.Empty(t, apic.accessToken())

	raw, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLoad_ProfileUnavailable_KeepsClaimUser(t *testing.T) {
	apic := &fakeAPI{profileErr: api.ErrUnavailable}
	store := newMemStore()
	require.NoError(t, store.Set(context.Background(), tokenKey, []byte(signToken(t, "claims@b.nl", time.Hour))))

	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Load(context.Background()))

	snap := cache.Current()
	require.True(t, snap.LoggedIn, "session survives an unreachable server")
	assert.Equal(t, "claims@b.nl", snap.User.Email)
	assert.Empty(t, snap.User.Firstname)

	raw, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.NotNil(t, raw, "token stays in the store")
}

func TestLogin_PersistsTokenAndPublishes(t *testing.T) {
	apic := &fakeAPI{authResult: &models.AuthResult{
		AccessToken: "tok123",
		User:        models.User{Firstname: "Milan", Email: "a@b.nl"},
	}}
	store := newMemStore()
	cache := NewCache(apic, store, testLogger())
	events := cache.Subscribe()

	require.NoError(t, cache.Login(context.Background(), "a@b.nl", "secret123"))

	snap := <-events
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, "a@b.nl", snap.User.Email)

	raw, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok123", string(raw))
	assert.Equal(t, "tok123", apic.accessToken())
}

func TestLogout_IsPurelyLocal(t *testing.T) {
	apic := &fakeAPI{authResult: &models.AuthResult{AccessToken: "tok123"}}
	store := newMemStore()
	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Login(context.Background(), "a@b.nl", "secret123"))

	require.NoError(t, cache.Logout(context.Background()))

	assert.False(t, cache.Current().LoggedIn)
	assert.Empty(t, apic.accessToken())
	assert.Zero(t, apic.logoutHits, "logout never reaches the server")

	raw, err := store.Get(context.Background(), tokenKey)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestAddFavorite_InFlightGuard(t *testing.T) {
	apic := &fakeAPI{
		favUser:    &models.User{Email: "a@b.nl"},
		favStarted: make(chan struct{}),
		favRelease: make(chan struct{}),
	}
	cache := NewCache(apic, newMemStore(), testLogger())

	fav := models.Favorite{ModuleID: "mod-1"}

	done := make(chan error, 1)
	go func() {
		_, err := cache.AddFavorite(context.Background(), fav)
		done <- err
	}()

	<-apic.favStarted

	// Second click while the first call is still on the wire.
	_, err := cache.AddFavorite(context.Background(), fav)
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(apic.favRelease)
	require.NoError(t, <-done)

	// Once released, the module can be mutated again.
	apic.favStarted = nil
	_, err = cache.AddFavorite(context.Background(), fav)
	require.NoError(t, err)
}

func TestAddFavorite_UnauthorizedTearsDown(t *testing.T) {
	apic := &fakeAPI{authResult: &models.AuthResult{AccessToken: "tok123"}, favErr: api.ErrUnauthorized}
	store := newMemStore()
	cache := NewCache(apic, store, testLogger())
	require.NoError(t, cache.Login(context.Background(), "a@b.nl", "secret123"))

	_, err := cache.AddFavorite(context.Background(), models.Favorite{ModuleID: "mod-1"})
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	assert.False(t, cache.Current().LoggedIn)
	raw, getErr := store.Get(context.Background(), tokenKey)
	require.NoError(t, getErr)
	assert.Nil(t, raw)
}

func TestSubscribe_ReceivesEveryTransition(t *testing.T) {
	apic := &fakeAPI{authResult: &models.AuthResult{
		AccessToken: "tok123",
		User:        models.User{Email: "a@b.nl"},
	}}
	cache := NewCache(apic, newMemStore(), testLogger())
	events := cache.Subscribe()

	require.NoError(t, cache.Login(context.Background(), "a@b.nl", "secret123"))
	require.NoError(t, cache.Logout(context.Background()))

	first := <-events
	second := <-events
	assert.True(t, first.LoggedIn)
	assert.False(t, second.LoggedIn)
}
