// Package orders tracks the order being viewed or just placed, plus a cache of
// orders fetched for the customer.
package orders

import (
	"fmt"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

// Fallback messages recorded when a failure carries no message of its own
const (
	FallbackSubmit   = "order submission failed"
	FallbackFetchAll = "failed to fetch orders"
	FallbackFetchOne = "failed to fetch order"
)

// State is the order slice. AllOrders is scanned linearly by number.
type State struct {
	CurrentOrder *models.Order
	AllOrders    []models.Order
	Loading      bool
	Error        string
}

// Initial returns the empty order slice.
func Initial() State {
	return State{AllOrders: []models.Order{}}
}

// Action is a change to the order slice
type Action interface {
	ActionName() string
	ordersAction()
}

type (
	// SubmitOrder is one phase of placing an order
	SubmitOrder struct{ Result async.Result[models.Order] }
	// FetchAllOrders is one phase of loading the customer's orders
	FetchAllOrders struct{ Result async.Result[[]models.Order] }
	// FetchOrderByNumber is one phase of looking an order up by number
	FetchOrderByNumber struct{ Result async.Result[models.Order] }
	// ResetCurrentOrder forgets the current order
	ResetCurrentOrder struct{}
	// SetCurrentOrder shows an order that is already at hand
	SetCurrentOrder struct{ Order models.Order }
)

func (a SubmitOrder) ActionName() string    { return "order/submit/" + a.Result.Phase.String() }
func (a FetchAllOrders) ActionName() string { return "order/fetchAll/" + a.Result.Phase.String() }
func (a FetchOrderByNumber) ActionName() string {
	return "order/fetchByNumber/" + a.Result.Phase.String()
}
func (ResetCurrentOrder) ActionName() string { return "order/resetCurrent" }
func (SetCurrentOrder) ActionName() string   { return "order/setCurrent" }

func (SubmitOrder) ordersAction()        {}
func (FetchAllOrders) ordersAction()     {}
func (FetchOrderByNumber) ordersAction() {}
func (ResetCurrentOrder) ordersAction()  {}
func (SetCurrentOrder) ordersAction()    {}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SubmitOrder:
		switch a.Result.Phase {
		case async.Pending:
			s.Loading = true
			s.Error = ""
			s.CurrentOrder = nil
		case async.Succeeded:
			order := a.Result.Payload
			s.CurrentOrder = &order
			s.Loading = false
			s.Error = ""
		case async.Failed:
			s.Loading = false
			s.Error = a.Result.ReasonOr(FallbackSubmit)
		}
		return s
	case FetchAllOrders:
		switch a.Result.Phase {
		case async.Pending:
			s.Loading = true
			s.Error = ""
		case async.Succeeded:
			s.AllOrders = a.Result.Payload
			s.Loading = false
			s.Error = ""
		case async.Failed:
			s.Loading = false
			s.Error = a.Result.ReasonOr(FallbackFetchAll)
		}
		return s
	case FetchOrderByNumber:
		switch a.Result.Phase {
		case async.Pending:
			s.CurrentOrder = nil
			s.Loading = true
			s.Error = ""
		case async.Succeeded:
			order := a.Result.Payload
			s.CurrentOrder = &order
			s.AllOrders = merge(s.AllOrders, order)
			s.Loading = false
			s.Error = ""
		case async.Failed:
			s.CurrentOrder = nil
			s.Loading = false
			s.Error = a.Result.ReasonOr(FallbackFetchOne)
		}
		return s
	case ResetCurrentOrder:
		s.CurrentOrder = nil
		return s
	case SetCurrentOrder:
		order := a.Order
		s.CurrentOrder = &order
		return s
	}
	panic(fmt.Sprintf("orders: unhandled action %T", a))
}

// merge appends order unless an order with the same number is cached already.
func merge(all []models.Order, order models.Order) []models.Order {
	if _, ok := FindByNumber(all, order.Number); ok {
		return all
	}
	out := make([]models.Order, 0, len(all)+1)
	out = append(out, all...)
	return append(out, order)
}

// FindByNumber returns the first cached order with the given number.
func FindByNumber(all []models.Order, number int) (models.Order, bool) {
	for _, o := range all {
		if o.Number == number {
			return o, true
		}
	}
	return models.Order{}, false
}
