package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"karen/internal/config"
)

func TestNew_WriteTimeoutCoversProviderCall(t *testing.T) {
	cfg := config.Config{
		Server: config.ServerConfig{Port: 8080},
		Mpesa:  config.MpesaConfig{Timeout: 15 * time.Second},
	}

	s := New(cfg, http.NotFoundHandler(), zap.NewNop())

	assert.Equal(t, ":8080", s.httpServer.Addr)
	assert.Greater(t, s.httpServer.WriteTimeout, cfg.Mpesa.Timeout)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := config.Config{Server: config.ServerConfig{Port: 0}}
	s := New(cfg, http.NotFoundHandler(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Second) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
