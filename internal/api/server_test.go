package api_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartscholars/accounts/internal/api"
	"github.com/smartscholars/accounts/internal/api/response"
	"github.com/smartscholars/accounts/internal/testutil"
)

func TestServerServesUntilShutdown(t *testing.T) {
	ts := newTestServer(t)

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = "0"
	cfg.ShutdownTimeout = 5 * time.Second
	server := api.NewServer(ts.handler, cfg, testutil.NopLogger())

	require.NoError(t, server.Listen())
	_, port, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)
	assert.NotEqual(t, "0", port)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve() }()

	resp, err := http.Get("http://" + server.Addr() + "/api/v1/health")
	require.NoError(t, err)
	var health response.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	_ = resp.Body.Close()
	assert.Equal(t, "ok", health.Status)

	require.NoError(t, server.Shutdown(context.Background()))
	assert.NoError(t, <-errCh)
}

func TestServerListenReportsBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()
	_, port, _ := net.SplitHostPort(taken.Addr().String())

	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	server := api.NewServer(http.NotFoundHandler(), cfg, testutil.NopLogger())

	assert.ErrorContains(t, server.Listen(), "listen on")
}
