package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/pkg/config"
	xhttp "Kundali/pkg/http"
)

func TestApp_RunContextClosesInReverseOrder(t *testing.T) {
	cfg := config.Default()
	cfg.Server.ShutdownTimeout = time.Second
	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))

	app := New(cfg, nil, srv, nil, nil, nil)
	var order []string
	app.OnClose("first", func() error {
		order = append(order, "first")
		return nil
	})
	app.OnClose("second", func() error {
		order = append(order, "second")
		return nil
	})
	app.OnClose("nil", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.RunContext(ctx))
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestApp_CloseErrorsAreJoined(t *testing.T) {
	srv := xhttp.NewServer(nil, xhttp.WithHost("127.0.0.1"), xhttp.WithPort(0), xhttp.WithMetricsPath(""))
	app := New(nil, nil, srv, nil, nil, nil)
	boom := errors.New("boom")
	app.OnClose("broken", func() error { return boom })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := app.RunContext(ctx)
	assert.ErrorIs(t, err, boom)
}
