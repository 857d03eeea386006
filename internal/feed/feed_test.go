package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"stellarburger/internal/async"
	"stellarburger/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func page(orders ...models.Order) models.FeedPage {
	return models.FeedPage{Orders: orders, Total: 100, TotalToday: 7}
}

func TestFetchFeedLifecycle(t *testing.T) {
	s := Reduce(Initial(), FetchFeed{Result: async.Pend[models.FeedPage]()})
	assert.True(t, s.IsLoading)

	s = Reduce(s, FetchFeed{Result: async.Succeed(page(models.Order{Number: 1}))})
	assert.False(t, s.IsLoading)
	assert.Len(t, s.Orders, 1)
	assert.Equal(t, 100, s.Total)
	assert.Equal(t, 7, s.TotalToday)

	s = Reduce(s, FetchFeed{Result: async.Fail[models.FeedPage]("")})
	assert.Equal(t, FallbackError, s.Error)
	assert.Len(t, s.Orders, 1, "a failure keeps the last page")

	s = Reduce(s, FetchFeed{Result: async.Pend[models.FeedPage]()})
	assert.Empty(t, s.Error)
}

func TestFetchFeedNilOrders(t *testing.T) {
	s := Reduce(Initial(), FetchFeed{Result: async.Succeed(models.FeedPage{})})
	assert.NotNil(t, s.Orders)
	assert.Empty(t, s.Orders)
}

func TestBoardColumns(t *testing.T) {
	var orders []models.Order
	for i := 1; i <= 30; i++ {
		orders = append(orders, models.Order{Number: i, Status: models.OrderStatusDone})
	}
	orders = append(orders,
		models.Order{Number: 40, Status: models.OrderStatusPending},
		models.Order{Number: 41, Status: models.OrderStatusCreated},
	)
	s := Reduce(Initial(), FetchFeed{Result: async.Succeed(page(orders...))})

	ready := ReadyNumbers(s)
	assert.Len(t, ready, BoardLimit)
	assert.Equal(t, 1, ready[0])
	assert.Equal(t, []int{40}, InProgressNumbers(s))
}

func TestActionNames(t *testing.T) {
	assert.Equal(t, "feed/fetch/pending", FetchFeed{Result: async.Pend[models.FeedPage]()}.ActionName())
	assert.Equal(t, "feed/fetch/failed", FetchFeed{Result: async.Fail[models.FeedPage]("x")}.ActionName())
}

func feedServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		// wait for the client to go away
		conn.SetReadDeadline(time.Now().Add(time.Second))
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestStreamDeliversFrames(t *testing.T) {
	good, err := json.Marshal(Frame{Success: true, FeedPage: page(models.Order{Number: 5, Status: models.OrderStatusDone})})
	require.NoError(t, err)

	srv := feedServer(t, string(good), `{"success":false,"message":"socket auth"}`, `not json`)

	var got []async.Result[models.FeedPage]
	err = NewStream(wsURL(srv)).Run(context.Background(), func(r async.Result[models.FeedPage]) {
		got = append(got, r)
	})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].OK())
	assert.Equal(t, 5, got[0].Payload.Orders[0].Number)
	assert.Equal(t, "socket auth", got[1].Reason)
	assert.Equal(t, async.Failed, got[2].Phase)

	s := Initial()
	for _, r := range got {
		s = Reduce(s, FetchFeed{Result: r})
	}
	assert.Len(t, s.Orders, 1)
	assert.Equal(t, "malformed feed frame", s.Error)
}

func TestStreamStopsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- NewStream(wsURL(srv)).Run(ctx, func(async.Result[models.FeedPage]) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}

func TestStreamDialError(t *testing.T) {
	err := NewStream("ws://127.0.0.1:1/orders/all").Run(context.Background(), func(async.Result[models.FeedPage]) {})
	assert.Error(t, err)
}
