package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// Run starts the HTTP server and all background services, then blocks until
// a shutdown signal or a fatal listener error.
//  1. Map HTTP handlers and routes
//  2. Start the change listener and the relay subscriber
//  3. Start HTTP server
//  4. Wait, then shut down in order
//
// A non-nil error means the process should exit non-zero.
func (srv *HTTPServer) Run(ctx context.Context) error {
	if err := srv.mapHandlers(); err != nil {
		srv.logger.Errorf(ctx, "Failed to map handlers: %v", err)
		return err
	}

	if err := srv.listener.Start(ctx); err != nil {
		srv.logger.Errorf(ctx, "Failed to start change listener: %v", err)
		srv.shutdown(ctx)
		return err
	}
	if !srv.listener.Leader() && srv.wsSubscriber == nil {
		srv.logger.Warnf(ctx, "Change listener is on standby and the Redis relay is off: clients of this instance get replay only")
	}

	if srv.wsSubscriber != nil {
		if err := srv.wsSubscriber.Start(ctx); err != nil {
			srv.logger.Errorf(ctx, "Failed to start Redis subscriber: %v", err)
			srv.shutdown(ctx)
			return err
		}
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", srv.host, srv.port),
		Handler:           srv.gin,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	srv.logger.Infof(ctx, "HTTP server started on %s", httpSrv.Addr)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-sigCtx.Done():
		srv.logger.Info(ctx, "Shutdown signal received")
	case err := <-srv.listener.Errors():
		runErr = err
		srv.logger.Errorf(ctx, "Change listener failed, shutting down: %v", err)
		srv.alert(ctx, err)
	case err := <-serveErr:
		runErr = err
		srv.logger.Errorf(ctx, "HTTP server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.shutdownTimeout)
	defer cancel()

	srv.shutdown(shutdownCtx)
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		srv.logger.Errorf(ctx, "HTTP server shutdown error: %v", err)
	}

	srv.logger.Info(ctx, "Notification service stopped")
	return runErr
}

// shutdown stops background services: listener, relay subscriber, then the registry.
func (srv *HTTPServer) shutdown(ctx context.Context) {
	if err := srv.listener.Shutdown(ctx); err != nil {
		srv.logger.Errorf(ctx, "Change listener shutdown error: %v", err)
	}
	if srv.wsSubscriber != nil {
		if err := srv.wsSubscriber.Shutdown(ctx); err != nil {
			srv.logger.Errorf(ctx, "Redis subscriber shutdown error: %v", err)
		}
	}
	if err := srv.wsUC.Shutdown(ctx); err != nil {
		srv.logger.Errorf(ctx, "Connection registry shutdown error: %v", err)
	}
}

func (srv *HTTPServer) alert(ctx context.Context, err error) {
	if srv.discord == nil {
		return
	}
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	title := fmt.Sprintf("[%s] %s change listener lost", srv.environment, serviceName)
	if sendErr := srv.discord.SendError(alertCtx, title, "The service is shutting down and will exit non-zero.", err); sendErr != nil {
		srv.logger.Errorf(ctx, "internal.httpserver.alert.SendError: %v", sendErr)
	}
}
