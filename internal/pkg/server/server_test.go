package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/grandhotel/hotelops/internal/pkg/logger"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestGracefulServer_RunUntilCancelled(t *testing.T) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	port := freePort(t)
	srv := NewGracefulServer(e, logger.NewFromZap(zap.NewNop()), "127.0.0.1", port, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + srv.addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestGracefulServer_StartFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	srv := NewGracefulServer(e, logger.NewFromZap(zap.NewNop()), "127.0.0.1", port, time.Second)

	err = srv.Run(context.Background())
	assert.ErrorContains(t, err, "failed to start server")
}

func TestShutdownManager_ReverseOrderAndErrors(t *testing.T) {
	sm := NewShutdownManager(logger.NewFromZap(zap.NewNop()))
	var order []string
	errRedis := errors.New("redis close failed")

	sm.Register("postgres", func(ctx context.Context) error {
		order = append(order, "postgres")
		return nil
	})
	sm.Register("redis", func(ctx context.Context) error {
		order = append(order, "redis")
		return errRedis
	})
	sm.Register("nats", func(ctx context.Context) error {
		order = append(order, "nats")
		return nil
	})

	err := sm.Shutdown(context.Background())

	assert.Equal(t, []string{"nats", "redis", "postgres"}, order)
	assert.ErrorIs(t, err, errRedis)
	assert.ErrorContains(t, err, "redis:")
}

func TestShutdownManager_Empty(t *testing.T) {
	sm := NewShutdownManager(logger.NewFromZap(zap.NewNop()))
	assert.NoError(t, sm.Shutdown(context.Background()))
}
