package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/store"
)

func TestRunnerEndpointPath(t *testing.T) {
	assert.Equal(t, "/mcp", Runner{}.endpointPath())
	assert.Equal(t, "/agents", Runner{HTTPEndpointPath: "agents"}.endpointPath())
	assert.Equal(t, "/x/y", Runner{HTTPEndpointPath: " /x/y "}.endpointPath())
}

func TestRunnerRejectsHalfTLS(t *testing.T) {
	_, err := Runner{HTTPServerCert: "cert.pem"}.tlsEnabled()
	assert.Error(t, err)
	on, err := Runner{HTTPServerCert: "c", HTTPServerKey: "k"}.tlsEnabled()
	require.NoError(t, err)
	assert.True(t, on)
}

func TestRunnerRequiresPersistence(t *testing.T) {
	assert.Error(t, Runner{}.Do(context.Background()))
	assert.Error(t, Runner{App: &app.Service{}}.Do(context.Background()))
}

func TestRunnerServesHTTPUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	listening := make(chan net.Addr, 1)
	r := Runner{
		App:            &app.Service{Persistence: store.NewMemory()},
		HTTPListenAddr: "127.0.0.1:0",
		OnHTTPListening: func(a net.Addr) {
			listening <- a
		},
	}

	done := make(chan error, 1)
	go func() { done <- r.Do(ctx) }()

	select {
	case a := <-listening:
		assert.NotZero(t, a.(*net.TCPAddr).Port)
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner never listened")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not stop")
	}
}
