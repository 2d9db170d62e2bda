package service

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves Handler until the context is cancelled, then shuts down
// gracefully.
type HTTPServer struct {
	Addr    string
	Handler http.Handler
	Log     *slog.Logger

	// Listener, when set, is used instead of listening on Addr.
	Listener net.Listener
}

func (s *HTTPServer) Name() string { return "webhook_http_server" }

func (s *HTTPServer) Run(ctx context.Context) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.Listener != nil {
			log.Info("webhook server listening", "addr", s.Listener.Addr().String())
			err = srv.Serve(s.Listener)
		} else {
			log.Info("webhook server listening", "addr", s.Addr)
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("closing webhook server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
