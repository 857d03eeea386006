package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"stellarburger/internal/async"
	"stellarburger/internal/catalog"
	"stellarburger/internal/construction"
	"stellarburger/internal/credentials"
	"stellarburger/internal/feed"
	"stellarburger/internal/models"
	"stellarburger/internal/orders"
)

var (
	// ErrNoBun is returned by Checkout when the construction has no bun
	ErrNoBun = errors.New("store: construction has no bun")
	// ErrNotAuthenticated is returned by Checkout for a signed-out session
	ErrNotAuthenticated = errors.New("store: sign in to place an order")
)

// SetBun puts bun into the bun slot of the construction
func (s *Store) SetBun(bun models.Ingredient) {
	s.Dispatch(construction.SetBun{Ingredient: bun})
}

// AddIngredient puts ingredient into the construction. Buns replace the bun
// slot; anything else is appended with a fresh instance id.
func (s *Store) AddIngredient(ingredient models.Ingredient) {
	if ingredient.IsBun() {
		s.SetBun(ingredient)
		return
	}
	s.Dispatch(construction.NewAddItem(s.ids, ingredient))
}

// RemoveItem drops the construction item with instanceID
func (s *Store) RemoveItem(instanceID string) {
	s.Dispatch(construction.RemoveItem{InstanceID: instanceID})
}

// MoveItem reorders the construction. It panics on out-of-range indices.
func (s *Store) MoveItem(from, to int) {
	s.Dispatch(construction.MoveItem{From: from, To: to})
}

// ResetConstruction empties the construction
func (s *Store) ResetConstruction() {
	s.Dispatch(construction.Reset{})
}

// ResetCurrentOrder clears the order being shown
func (s *Store) ResetCurrentOrder() {
	s.Dispatch(orders.ResetCurrentOrder{})
}

// SetCurrentOrder shows order without fetching it
func (s *Store) SetCurrentOrder(order models.Order) {
	s.Dispatch(orders.SetCurrentOrder{Order: order})
}

// EnsureCatalog fetches the catalog unless it is loaded or loading already.
// While another fetch is in flight it returns a pending result without
// calling the API; the settled catalog arrives through Subscribe.
func (s *Store) EnsureCatalog(ctx context.Context) async.Result[[]models.Ingredient] {
	c := s.State().Catalog
	if c.IsLoading {
		return async.Pend[[]models.Ingredient]()
	}
	if len(c.Ingredients) > 0 && c.Error == "" {
		return async.Succeed(c.Ingredients)
	}
	return s.FetchCatalog(ctx)
}

// Checkout submits the current construction. The construction is cleared once
// the order is accepted.
func (s *Store) Checkout(ctx context.Context) (async.Result[models.Order], error) {
	state := s.State()
	if !construction.Ready(state.Construction) {
		return async.Result[models.Order]{}, ErrNoBun
	}
	if !state.Session.IsAuthenticated {
		return async.Result[models.Order]{}, ErrNotAuthenticated
	}

	result := s.SubmitOrder(ctx, construction.OrderIngredientIDs(state.Construction))
	if result.OK() {
		s.ResetConstruction()
	}
	return result, nil
}

// OpenOrder shows order number, from the order or feed cache when possible.
func (s *Store) OpenOrder(ctx context.Context, number int) async.Result[models.Order] {
	state := s.State()
	if order, ok := orders.FindByNumber(state.Order.AllOrders, number); ok {
		s.SetCurrentOrder(order)
		return async.Succeed(order)
	}
	if order, ok := orders.FindByNumber(state.Feed.Orders, number); ok {
		s.SetCurrentOrder(order)
		return async.Succeed(order)
	}
	return s.FetchOrderByNumber(ctx, number)
}

// Bootstrap loads what the storefront needs at start. The profile is only
// requested when some credential is stored; the session stays signed out
// until the backend answers. A catalog failure is returned.
func (s *Store) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		if r := s.FetchCatalog(ctx); !r.OK() {
			return errors.New(r.ReasonOr(catalog.FallbackError))
		}
		return nil
	})
	if credentials.HasAny(s.credentials) {
		g.Go(func() error {
			s.FetchProfile(ctx)
			return nil
		})
	}
	return g.Wait()
}

// FeedSource delivers settled feed pages until its context ends
type FeedSource interface {
	Run(ctx context.Context, handle func(async.Result[models.FeedPage])) error
}

var _ FeedSource = (*feed.Stream)(nil)

// WatchFeed dispatches every page src delivers.
func (s *Store) WatchFeed(ctx context.Context, src FeedSource) error {
	return src.Run(ctx, func(r async.Result[models.FeedPage]) {
		s.Dispatch(feed.FetchFeed{Result: r})
	})
}
