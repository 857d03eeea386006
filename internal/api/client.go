// Package api is the storefront backend contract consumed by the state engine
// together with its REST/JSON implementation.
package api

import (
	"context"
	"errors"
	"fmt"

	"stellarburger/internal/models"
)

// Client is every backend call the stores make
type Client interface {
	FetchCatalog(ctx context.Context) ([]models.Ingredient, error)
	FetchFeed(ctx context.Context) (models.FeedPage, error)

	FetchProfile(ctx context.Context) (models.User, error)
	Register(ctx context.Context, data models.RegisterData) (models.AuthResponse, error)
	Login(ctx context.Context, data models.LoginData) (models.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)
	UpdateProfile(ctx context.Context, data models.ProfileUpdate) (models.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, data models.PasswordReset) error

	SubmitOrder(ctx context.Context, ingredientIDs []string) (models.Order, error)
	FetchAllOrders(ctx context.Context) ([]models.Order, error)
	FetchOrderByNumber(ctx context.Context, number int) ([]models.Order, error)
}

// ExpiredTokenMessage is the backend's message for a stale access token
const ExpiredTokenMessage = "jwt expired"

// ErrTokenExpired matches any Error reporting an expired access token
var ErrTokenExpired = errors.New("api: access token expired")

// Error is a failure reported by the backend
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// UserMessage is the backend message without transport details. It is empty
// when the backend sent none.
func (e *Error) UserMessage() string {
	return e.Message
}

// Is lets errors.Is(err, ErrTokenExpired) recognise expiry reports
func (e *Error) Is(target error) bool {
	return target == ErrTokenExpired && e.Message == ExpiredTokenMessage
}
