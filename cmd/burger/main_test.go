package main

import (
	"bytes"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellarburger/internal/sandbox"
)

type harness struct {
	configPath string
	server     *sandbox.Server
}

func newHarness(t *testing.T) harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sandbox.OpenDB("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv, err := sandbox.NewServer(sandbox.Options{DB: db, Secret: []byte("cli-test")})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "burger.yaml")
	body := fmt.Sprintf(`
api_url: %s/api
feed_url: ws%s/api/orders/all/ws
log_level: error
credentials:
  driver: sqlite3
  dsn: %s
`, ts.URL, strings.TrimPrefix(ts.URL, "http"), filepath.Join(dir, "credentials.db"))
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))

	return harness{configPath: configPath, server: srv}
}

func (h harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	h := newHarness(t)
	out, err := h.run(t, "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "bun:")
	assert.Contains(t, out, sandbox.DefaultCatalog[0].Name)
}

func TestOrderJourney(t *testing.T) {
	h := newHarness(t)
	bun, patty := sandbox.DefaultCatalog[0], sandbox.DefaultCatalog[4]

	_, err := h.run(t, "order", bun.ID)
	assert.Error(t, err, "signed out customers cannot order")

	out, err := h.run(t, "register", "--email", "ann@example.com", "--name", "Ann", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ann")

	out, err = h.run(t, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Ann <ann@example.com>")

	out, err = h.run(t, "order", patty.ID, bun.ID)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("Order %d accepted", sandbox.FirstOrderNumber))
	assert.Contains(t, out, fmt.Sprintf("(%d)", 2*bun.Price+patty.Price))

	out, err = h.run(t, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("#%d", sandbox.FirstOrderNumber))

	out, err = h.run(t, "show", fmt.Sprint(sandbox.FirstOrderNumber))
	require.NoError(t, err)
	assert.Contains(t, out, "2 x "+bun.Name)
	assert.Contains(t, out, fmt.Sprintf("total %d", 2*bun.Price+patty.Price))

	out, err = h.run(t, "feed")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed all time: 1")

	out, err = h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	_, err = h.run(t, "orders")
	assert.Error(t, err)
}

func TestLoginFailureMessage(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "login", "--email", "nobody@example.com", "--password", "x")
	require.Error(t, err)
	assert.Equal(t, "email or password are incorrect", err.Error())
}

func TestShowUnknownOrder(t *testing.T) {
	h := newHarness(t)
	_, err := h.run(t, "show", "42")
	require.Error(t, err)
	assert.Equal(t, "order not found", err.Error())
}
