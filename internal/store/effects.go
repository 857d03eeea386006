package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"stellarburger/internal/async"
	"stellarburger/internal/catalog"
	"stellarburger/internal/feed"
	"stellarburger/internal/models"
	"stellarburger/internal/orders"
	"stellarburger/internal/session"
)

// Operation names used in logs and metrics
const (
	OpFetchCatalog       = "fetchCatalog"
	OpFetchFeed          = "fetchFeed"
	OpFetchProfile       = "fetchProfile"
	OpRegister           = "register"
	OpLogin              = "login"
	OpLogout             = "logout"
	OpUpdateProfile      = "updateProfile"
	OpForgotPassword     = "forgotPassword"
	OpResetPassword      = "resetPassword"
	OpSubmitOrder        = "submitOrder"
	OpFetchAllOrders     = "fetchAllOrders"
	OpFetchOrderByNumber = "fetchOrderByNumber"
)

// run dispatches the pending phase, performs call and dispatches the settled
// phase. The settled result is returned to the caller; the raw error is not.
func run[T any](ctx context.Context, s *Store, op string, phase func(async.Result[T]) Action, call func(context.Context) (T, error)) async.Result[T] {
	s.Dispatch(phase(async.Pend[T]()))

	start := time.Now()
	v, err := call(ctx)
	result := async.Settle(v, err)
	elapsed := time.Since(start)

	s.monitor.RecordOperation(op, result.OK(), elapsed)
	if err != nil {
		s.logger.Warn("operation failed",
			zap.String("op", op),
			zap.String("error", err.Error()),
			zap.Duration("elapsed", elapsed))
	} else {
		s.logger.Debug("operation succeeded", zap.String("op", op), zap.Duration("elapsed", elapsed))
	}

	s.Dispatch(phase(result))
	return result
}

// FetchCatalog loads the ingredient catalog
func (s *Store) FetchCatalog(ctx context.Context) async.Result[[]models.Ingredient] {
	return run(ctx, s, OpFetchCatalog,
		func(r async.Result[[]models.Ingredient]) Action { return catalog.FetchCatalog{Result: r} },
		func(ctx context.Context) ([]models.Ingredient, error) { return catalog.Fetch(ctx, s.client) })
}

// FetchFeed loads one page of the public order feed
func (s *Store) FetchFeed(ctx context.Context) async.Result[models.FeedPage] {
	return run(ctx, s, OpFetchFeed,
		func(r async.Result[models.FeedPage]) Action { return feed.FetchFeed{Result: r} },
		func(ctx context.Context) (models.FeedPage, error) { return feed.Fetch(ctx, s.client) })
}

// FetchProfile restores the signed-in user from stored credentials
func (s *Store) FetchProfile(ctx context.Context) async.Result[models.User] {
	return run(ctx, s, OpFetchProfile,
		func(r async.Result[models.User]) Action { return session.FetchProfile{Result: r} },
		s.session.FetchProfile)
}

// Register creates an account and signs it in
func (s *Store) Register(ctx context.Context, data models.RegisterData) async.Result[models.User] {
	return run(ctx, s, OpRegister,
		func(r async.Result[models.User]) Action { return session.Register{Result: r} },
		func(ctx context.Context) (models.User, error) { return s.session.Register(ctx, data) })
}

// Login signs in with email and password
func (s *Store) Login(ctx context.Context, data models.LoginData) async.Result[models.User] {
	return run(ctx, s, OpLogin,
		func(r async.Result[models.User]) Action { return session.Login{Result: r} },
		func(ctx context.Context) (models.User, error) { return s.session.Login(ctx, data) })
}

// Logout ends the session on the backend and forgets the credentials
func (s *Store) Logout(ctx context.Context) async.Result[session.Done] {
	return run(ctx, s, OpLogout,
		func(r async.Result[session.Done]) Action { return session.Logout{Result: r} },
		s.session.Logout)
}

// UpdateProfile changes the profile fields set in data
func (s *Store) UpdateProfile(ctx context.Context, data models.ProfileUpdate) async.Result[models.User] {
	return run(ctx, s, OpUpdateProfile,
		func(r async.Result[models.User]) Action { return session.UpdateProfile{Result: r} },
		func(ctx context.Context) (models.User, error) { return s.session.UpdateProfile(ctx, data) })
}

// ForgotPassword requests a password reset code for email
func (s *Store) ForgotPassword(ctx context.Context, email string) async.Result[session.Done] {
	return run(ctx, s, OpForgotPassword,
		func(r async.Result[session.Done]) Action { return session.ForgotPassword{Result: r} },
		func(ctx context.Context) (session.Done, error) { return s.session.ForgotPassword(ctx, email) })
}

// ResetPassword sets a new password with a reset code
func (s *Store) ResetPassword(ctx context.Context, data models.PasswordReset) async.Result[session.Done] {
	return run(ctx, s, OpResetPassword,
		func(r async.Result[session.Done]) Action { return session.ResetPassword{Result: r} },
		func(ctx context.Context) (session.Done, error) { return s.session.ResetPassword(ctx, data) })
}

// SubmitOrder places an order for ingredientIDs
func (s *Store) SubmitOrder(ctx context.Context, ingredientIDs []string) async.Result[models.Order] {
	return run(ctx, s, OpSubmitOrder,
		func(r async.Result[models.Order]) Action { return orders.SubmitOrder{Result: r} },
		func(ctx context.Context) (models.Order, error) { return s.orders.Submit(ctx, ingredientIDs) })
}

// FetchAllOrders loads the signed-in user's order history
func (s *Store) FetchAllOrders(ctx context.Context) async.Result[[]models.Order] {
	return run(ctx, s, OpFetchAllOrders,
		func(r async.Result[[]models.Order]) Action { return orders.FetchAllOrders{Result: r} },
		s.orders.FetchAll)
}

// FetchOrderByNumber loads a single order and makes it current
func (s *Store) FetchOrderByNumber(ctx context.Context, number int) async.Result[models.Order] {
	return run(ctx, s, OpFetchOrderByNumber,
		func(r async.Result[models.Order]) Action { return orders.FetchOrderByNumber{Result: r} },
		func(ctx context.Context) (models.Order, error) { return s.orders.FetchByNumber(ctx, number) })
}
