package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"stellarburger/internal/api"
	"stellarburger/internal/credentials"
	"stellarburger/internal/models"
)

// ErrNoRefreshToken is returned when a refresh is needed but none is stored
var ErrNoRefreshToken = errors.New("session: no refresh token stored")

// API is the part of the backend client the session needs
type API interface {
	TokenAPI
	FetchProfile(ctx context.Context) (models.User, error)
	Register(ctx context.Context, data models.RegisterData) (models.AuthResponse, error)
	Login(ctx context.Context, data models.LoginData) (models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	UpdateProfile(ctx context.Context, data models.ProfileUpdate) (models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, data models.PasswordReset) error
}

// TokenAPI exchanges a refresh token for a new pair
type TokenAPI interface {
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)
}

// Effects performs the session's backend calls and owns every write to the
// credential store.
type Effects struct {
	API         API
	Credentials credentials.Store
	Refresher   *Refresher
}

// NewEffects wires effects and a refresher over the same client and store
func NewEffects(client API, creds credentials.Store) *Effects {
	return &Effects{
		API:         client,
		Credentials: creds,
		Refresher:   &Refresher{API: client, Credentials: creds},
	}
}

// FetchProfile loads the signed-in user, renewing the access token when needed
func (e *Effects) FetchProfile(ctx context.Context) (models.User, error) {
	return Authorized(ctx, e.Refresher, e.API.FetchProfile)
}

// Register creates the account and stores the issued tokens before returning.
func (e *Effects) Register(ctx context.Context, data models.RegisterData) (models.User, error) {
	resp, err := e.API.Register(ctx, data)
	if err != nil {
		return models.User{}, err
	}
	if err := persist(e.Credentials, resp.TokenPair); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

// Login signs in and stores the issued tokens before returning.
func (e *Effects) Login(ctx context.Context, data models.LoginData) (models.User, error) {
	resp, err := e.API.Login(ctx, data)
	if err != nil {
		return models.User{}, err
	}
	if err := persist(e.Credentials, resp.TokenPair); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

// Logout revokes the refresh token and, once the backend agrees, erases both
// credentials.
func (e *Effects) Logout(ctx context.Context) (Done, error) {
	refresh, err := e.Credentials.RefreshToken()
	if err != nil {
		return Done{}, err
	}
	if err := e.API.Logout(ctx, refresh); err != nil {
		return Done{}, err
	}
	e.Credentials.DeleteAccessToken()
	if err := e.Credentials.DeleteRefreshToken(); err != nil {
		return Done{}, err
	}
	return Done{}, nil
}

// UpdateProfile sends the changed profile fields and returns the updated user
func (e *Effects) UpdateProfile(ctx context.Context, data models.ProfileUpdate) (models.User, error) {
	return Authorized(ctx, e.Refresher, func(ctx context.Context) (models.User, error) {
		return e.API.UpdateProfile(ctx, data)
	})
}

// ForgotPassword asks the backend to mail a reset code to email
func (e *Effects) ForgotPassword(ctx context.Context, email string) (Done, error) {
	return Done{}, e.API.ForgotPassword(ctx, email)
}

// ResetPassword sets a new password using the mailed reset code
func (e *Effects) ResetPassword(ctx context.Context, data models.PasswordReset) (Done, error) {
	return Done{}, e.API.ResetPassword(ctx, data)
}

// Refresher rotates an expired access token using the stored refresh token
type Refresher struct {
	API         TokenAPI
	Credentials credentials.Store

	mu sync.Mutex
}

// Refresh exchanges the stored refresh token for a new pair and stores it.
func (r *Refresher) Refresh(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	refresh, err := r.Credentials.RefreshToken()
	if err != nil {
		return err
	}
	if refresh == "" {
		return ErrNoRefreshToken
	}
	pair, err := r.API.RefreshToken(ctx, refresh)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	return persist(r.Credentials, pair)
}

// Authorized runs call and, when the backend reports an expired access token,
// refreshes once and retries. An access token that has already expired out of
// the jar is renewed before the call when a refresh token is stored. A nil
// refresher disables both.
func Authorized[T any](ctx context.Context, r *Refresher, call func(context.Context) (T, error)) (T, error) {
	if r != nil && r.needsRenewal() {
		if err := r.Refresh(ctx); err != nil {
			var zero T
			return zero, err
		}
	}

	v, err := call(ctx)
	if err == nil || r == nil || !errors.Is(err, api.ErrTokenExpired) {
		return v, err
	}
	if err := r.Refresh(ctx); err != nil {
		var zero T
		return zero, err
	}
	return call(ctx)
}

func (r *Refresher) needsRenewal() bool {
	if r.Credentials.AccessToken() != "" {
		return false
	}
	refresh, err := r.Credentials.RefreshToken()
	return err == nil && refresh != ""
}

func persist(store credentials.Store, pair models.TokenPair) error {
	store.SetAccessToken(pair.AccessToken)
	if err := store.SetRefreshToken(pair.RefreshToken); err != nil {
		store.DeleteAccessToken()
		return err
	}
	return nil
}
