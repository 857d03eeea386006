package orders

import (
	"context"
	"errors"

	"stellarburger/internal/models"
	"stellarburger/internal/session"
)

// ErrNotFound is returned when a by-number lookup comes back empty
var ErrNotFound = errors.New("order not found")

// API is the part of the backend client the order slice needs
type API interface {
	SubmitOrder(ctx context.Context, ingredientIDs []string) (models.Order, error)
	FetchAllOrders(ctx context.Context) ([]models.Order, error)
	FetchOrderByNumber(ctx context.Context, number int) ([]models.Order, error)
}

// Effects performs the order slice's backend calls. Authorised calls go
// through the session refresher.
type Effects struct {
	API       API
	Refresher *session.Refresher
}

// Submit places an order for ingredientIDs on behalf of the signed-in user
func (e *Effects) Submit(ctx context.Context, ingredientIDs []string) (models.Order, error) {
	return session.Authorized(ctx, e.Refresher, func(ctx context.Context) (models.Order, error) {
		return e.API.SubmitOrder(ctx, ingredientIDs)
	})
}

// FetchAll loads the order history of the signed-in user
func (e *Effects) FetchAll(ctx context.Context) ([]models.Order, error) {
	list, err := session.Authorized(ctx, e.Refresher, e.API.FetchAllOrders)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Order{}
	}
	return list, nil
}

// FetchByNumber looks an order up. The backend answers with a collection even
// for a single number; the first element is taken.
func (e *Effects) FetchByNumber(ctx context.Context, number int) (models.Order, error) {
	list, err := e.API.FetchOrderByNumber(ctx, number)
	if err != nil {
		return models.Order{}, err
	}
	if len(list) == 0 {
		return models.Order{}, ErrNotFound
	}
	return list[0], nil
}
