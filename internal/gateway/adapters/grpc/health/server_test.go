package health_test

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"walkydoggy/internal/config"
	"walkydoggy/internal/gateway/adapters/grpc/health"
	"walkydoggy/pkg/logger"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func dial(t *testing.T, addr string) healthpb.HealthClient {
	t.Helper()
	conn, err := grpc.NewClient("passthrough:///"+addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func status(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestServerReportsDependencyStatus(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	var redisDown atomic.Bool
	redisDown.Store(true)

	srv := health.New(&config.GRPCConfig{Host: "localhost", Port: 0, ProbeInterval: time.Hour}, map[string]health.Probe{
		"postgres": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if redisDown.Load() {
				return errors.New("connection refused")
			}
			return nil
		},
	})
	require.NoError(t, srv.Start(ctx))
	defer srv.Stop(ctx)

	client := dial(t, srv.Addr())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, client, "postgres"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, client, "redis"))

	redisDown.Store(false)
	srv.Probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, client, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, client, "redis"))
}

func TestServerPeriodicProbe(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	var calls atomic.Int32
	srv := health.New(&config.GRPCConfig{Host: "localhost", Port: 0, ProbeInterval: 10 * time.Millisecond}, map[string]health.Probe{
		"mongo": func(context.Context) error {
			calls.Add(1)
			return nil
		},
	})
	require.NoError(t, srv.Start(ctx))
	defer srv.Stop(ctx)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestStartAddressInUse(t *testing.T) {
	ctx := testContext(t)

	listener, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	port := listener.Addr().(*net.TCPAddr).Port

	srv := health.New(&config.GRPCConfig{Host: "localhost", Port: port}, nil)
	assert.Error(t, srv.Start(ctx))
	assert.Empty(t, srv.Addr())
}

func TestStopMarksNotServing(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	srv := health.New(&config.GRPCConfig{Host: "localhost", Port: 0, ProbeInterval: time.Hour}, nil)
	require.NoError(t, srv.Start(ctx))

	client := dial(t, srv.Addr())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, client, ""))

	srv.Stop(ctx)

	callCtx, callCancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer callCancel()
	_, err := client.Check(callCtx, &healthpb.HealthCheckRequest{})
	assert.Error(t, err)
}
