package workers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

const shutdownGrace = 5 * time.Second

// HTTPServerWorker runs one *http.Server under supervision. Serve errors
// bubble up so the supervisor restarts the listener; context cancellation
// drains in-flight requests before returning.
type HTTPServerWorker struct {
	log    *slog.Logger
	name   string
	server *http.Server
}

func NewHTTPServerWorker(log *slog.Logger, name string, server *http.Server) *HTTPServerWorker {
	return &HTTPServerWorker{log: log, name: name, server: server}
}

func (w *HTTPServerWorker) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		w.log.Info("Listening", "server", w.name, "address", w.server.Addr)
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Warn("Shutdown incomplete", "server", w.name, "error", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}
