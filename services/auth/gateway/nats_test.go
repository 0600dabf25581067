package gateway

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grandhotel/hotelops/internal/pkg/constants"
	"github.com/grandhotel/hotelops/internal/pkg/models"
	natspkg "github.com/grandhotel/hotelops/internal/pkg/nats"
)

var testNatsServer *server.Server

func TestMain(m *testing.M) {
	testNatsServer = natsserver.RunRandClientPortServer()
	code := m.Run()
	testNatsServer.Shutdown()
	os.Exit(code)
}

func newTestClient(t *testing.T) *natspkg.Client {
	t.Helper()
	nc, err := natspkg.NewClient(testNatsServer.ClientURL(), "gateway-test")
	require.NoError(t, err, "Failed to connect to NATS server")
	t.Cleanup(nc.Close)
	return nc
}

func TestNATSSMSGateway_SendOTP(t *testing.T) {
	nc := newTestClient(t)

	msgCh := make(chan *nats.Msg, 1)
	sub, err := nc.Subscribe(constants.SubjectSMSOTPRequested, func(msg *nats.Msg) {
		msgCh <- msg
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.GetConn().Flush())

	gw := NewNATSSMSGateway(nc, "")
	expiresAt := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)

	err = gw.SendOTP(context.Background(), "+15551234567", "482913", expiresAt)
	require.NoError(t, err)

	select {
	case msg := <-msgCh:
		var event models.OTPDispatch
		require.NoError(t, json.Unmarshal(msg.Data, &event))
		assert.Equal(t, "+15551234567", event.Mobile)
		assert.Equal(t, "482913", event.Code)
		assert.True(t, expiresAt.Equal(event.ExpiresAt))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestNATSSMSGateway_CustomSubject(t *testing.T) {
	nc := newTestClient(t)

	msgCh := make(chan *nats.Msg, 1)
	sub, err := nc.Subscribe("sms.custom", func(msg *nats.Msg) { msgCh <- msg })
	require.NoError(t, err)
	defer sub.Unsubscribe()
	require.NoError(t, nc.GetConn().Flush())

	gw := NewNATSSMSGateway(nc, "sms.custom")
	require.NoError(t, gw.SendOTP(context.Background(), "+15551234567", "111111", time.Now()))

	select {
	case <-msgCh:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatch")
	}
}

func TestNATSSMSGateway_CanceledContext(t *testing.T) {
	gw := NewNATSSMSGateway(newTestClient(t), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := gw.SendOTP(ctx, "+15551234567", "482913", time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNATSSMSGateway_ClosedConnection(t *testing.T) {
	nc, err := natspkg.NewClient(testNatsServer.ClientURL(), "gateway-test")
	require.NoError(t, err)
	nc.Close()

	gw := NewNATSSMSGateway(nc, "")
	err = gw.SendOTP(context.Background(), "+15551234567", "482913", time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish otp dispatch")
}
