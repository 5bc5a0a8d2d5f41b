package devtools

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const shutdownTimeout = 5 * time.Second

// Serve answers inspector requests on ln until ctx is cancelled. HTTP/1.1 and
// cleartext HTTP/2 are both accepted, so gRPC clients work without TLS.
// A nil logger uses slog.Default().
func Serve(ctx context.Context, ln net.Listener, src Source, logger *slog.Logger, opts ...connect.HandlerOption) error {
	if logger == nil {
		logger = slog.Default()
	}

	path, handler := NewHandler(src, opts...)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := &http.Server{
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	logger.Info("devtools listening", "addr", ln.Addr().String(), "service", ServiceName)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("devtools shutting down", "addr", ln.Addr().String())
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func ListenAndServe(ctx context.Context, addr string, src Source, logger *slog.Logger, opts ...connect.HandlerOption) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, src, logger, opts...)
}
