package store

import (
	"context"
	"sync"

	"stellarburger/internal/api"
	"stellarburger/internal/models"
)

// fakeClient is an in-memory api.Client. Queued errors are returned by the
// next call of the matching operation.
type fakeClient struct {
	mu sync.Mutex

	ingredients []models.Ingredient
	feed        models.FeedPage
	user        models.User
	pair        models.TokenPair
	orders      []models.Order
	byNumber    map[int][]models.Order
	nextNumber  int

	errs      map[string][]error
	calls     map[string]int
	gates     map[string]gate
	submitted [][]string
}

// gate parks calls of one operation until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		byNumber:   make(map[int][]models.Order),
		nextNumber: 1000,
		errs:       make(map[string][]error),
		calls:      make(map[string]int),
		gates:      make(map[string]gate),
	}
}

// hold makes calls of op block until the returned release func runs. entered
// receives once per parked call.
func (f *fakeClient) hold(op string) (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := gate{entered: make(chan struct{}, 8), release: make(chan struct{})}
	f.gates[op] = g
	var once sync.Once
	return g.entered, func() { once.Do(func() { close(g.release) }) }
}

func (f *fakeClient) failNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = append(f.errs[op], err)
}

func (f *fakeClient) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) enter(op string) error {
	f.mu.Lock()
	f.calls[op]++
	g, held := f.gates[op]
	f.mu.Unlock()
	if held {
		g.entered <- struct{}{}
		<-g.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if queued := f.errs[op]; len(queued) > 0 {
		f.errs[op] = queued[1:]
		return queued[0]
	}
	return nil
}

func (f *fakeClient) FetchCatalog(context.Context) ([]models.Ingredient, error) {
	if err := f.enter("catalog"); err != nil {
		return nil, err
	}
	return f.ingredients, nil
}

func (f *fakeClient) FetchFeed(context.Context) (models.FeedPage, error) {
	if err := f.enter("feed"); err != nil {
		return models.FeedPage{}, err
	}
	return f.feed, nil
}

func (f *fakeClient) FetchProfile(context.Context) (models.User, error) {
	if err := f.enter("profile"); err != nil {
		return models.User{}, err
	}
	return f.user, nil
}

func (f *fakeClient) Register(_ context.Context, data models.RegisterData) (models.AuthResponse, error) {
	if err := f.enter("register"); err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{TokenPair: f.pair, User: models.User{Email: data.Email, Name: data.Name}}, nil
}

func (f *fakeClient) Login(_ context.Context, data models.LoginData) (models.AuthResponse, error) {
	if err := f.enter("login"); err != nil {
		return models.AuthResponse{}, err
	}
	return models.AuthResponse{TokenPair: f.pair, User: f.user}, nil
}

func (f *fakeClient) Logout(context.Context, string) error {
	return f.enter("logout")
}

func (f *fakeClient) RefreshToken(context.Context, string) (models.TokenPair, error) {
	if err := f.enter("refresh"); err != nil {
		return models.TokenPair{}, err
	}
	return f.pair, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, data models.ProfileUpdate) (models.User, error) {
	if err := f.enter("updateProfile"); err != nil {
		return models.User{}, err
	}
	return models.User{Email: data.Email, Name: data.Name}, nil
}

func (f *fakeClient) ForgotPassword(context.Context, string) error {
	return f.enter("forgotPassword")
}

func (f *fakeClient) ResetPassword(context.Context, models.PasswordReset) error {
	return f.enter("resetPassword")
}

func (f *fakeClient) SubmitOrder(_ context.Context, ids []string) (models.Order, error) {
	if err := f.enter("submit"); err != nil {
		return models.Order{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, ids)
	f.nextNumber++
	return models.Order{Number: f.nextNumber, Status: models.OrderStatusCreated, Ingredients: ids}, nil
}

func (f *fakeClient) FetchAllOrders(context.Context) ([]models.Order, error) {
	if err := f.enter("allOrders"); err != nil {
		return nil, err
	}
	return f.orders, nil
}

func (f *fakeClient) FetchOrderByNumber(_ context.Context, number int) ([]models.Order, error) {
	if err := f.enter("orderByNumber"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byNumber[number], nil
}

var _ api.Client = (*fakeClient)(nil)
