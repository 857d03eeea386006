// Package feed caches the public live order feed. It is independent of the
// session: signing in or out never invalidates it.
package feed

import (
	"context"
	"fmt"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

// FallbackError is recorded when a feed fetch fails without a message
const FallbackError = "failed to load order feed"

// BoardLimit caps each column of the feed board
const BoardLimit = 20

// State is the feed slice
type State struct {
	Orders     []models.Order
	Total      int
	TotalToday int
	IsLoading  bool
	Error      string
}

// Initial returns the empty feed.
func Initial() State {
	return State{Orders: []models.Order{}}
}

// Action is a change to the feed
type Action interface {
	ActionName() string
	feedAction()
}

// FetchFeed is one phase of a feed fetch. Stream frames arrive as already
// settled phases.
type FetchFeed struct {
	Result async.Result[models.FeedPage]
}

func (a FetchFeed) ActionName() string { return "feed/fetch/" + a.Result.Phase.String() }

func (FetchFeed) feedAction() {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchFeed:
		switch a.Result.Phase {
		case async.Pending:
			s.IsLoading = true
			s.Error = ""
		case async.Succeeded:
			page := a.Result.Payload
			s.Orders = page.Orders
			if s.Orders == nil {
				s.Orders = []models.Order{}
			}
			s.Total = page.Total
			s.TotalToday = page.TotalToday
			s.IsLoading = false
			s.Error = ""
		case async.Failed:
			s.IsLoading = false
			s.Error = a.Result.ReasonOr(FallbackError)
		}
		return s
	}
	panic(fmt.Sprintf("feed: unhandled action %T", a))
}

// API is the part of the backend client the feed needs
type API interface {
	FetchFeed(ctx context.Context) (models.FeedPage, error)
}

// Fetch loads the current feed page.
func Fetch(ctx context.Context, api API) (models.FeedPage, error) {
	return api.FetchFeed(ctx)
}

// ReadyNumbers lists numbers of finished orders for the board.
func ReadyNumbers(s State) []int {
	return numbersWithStatus(s.Orders, models.OrderStatusDone)
}

// InProgressNumbers lists numbers of orders still being cooked.
func InProgressNumbers(s State) []int {
	return numbersWithStatus(s.Orders, models.OrderStatusPending)
}

func numbersWithStatus(orders []models.Order, status models.OrderStatus) []int {
	var out []int
	for _, o := range orders {
		if o.Status != status {
			continue
		}
		out = append(out, o.Number)
		if len(out) == BoardLimit {
			break
		}
	}
	return out
}
