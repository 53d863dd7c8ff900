package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	grpcapi "perf-tester/internal/api/grpc"
	httpapi "perf-tester/internal/api/http"
	"perf-tester/internal/domain"
	"perf-tester/internal/infra"
)

func newServeCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve stored results over HTTP and gRPC",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return d.withApplication(cmd, func(ctx context.Context, app *application) error {
				return serve(ctx, app)
			})
		},
	}
}

func serve(ctx context.Context, app *application) error {
	cfg := app.Config
	logger := app.Logger

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	infra.StartMetricsServer(ctx, cfg.MetricsAddr, logger)

	httpServer := newHTTPServer(cfg.HTTPPort, app.Service, logger)
	httpListener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on HTTP port %s", cfg.HTTPPort)
	}

	grpcServer := grpcapi.NewServer(app.Service, logger)
	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.GRPCPort))
	if err != nil {
		_ = httpListener.Close()
		return errors.Wrapf(err, "listen on gRPC port %s", cfg.GRPCPort)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf(ctx, "HTTP server shutdown error: %v", err)
		}

		grpcServer.GracefulStop()
	}()

	serverErrs := make(chan error, 2)
	var serverGroup sync.WaitGroup

	serverGroup.Add(1)
	go func() {
		defer serverGroup.Done()
		logger.Printf(ctx, "HTTP server listening on %s", httpListener.Addr())
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrs <- errors.Wrap(err, "http server")
		}
	}()

	serverGroup.Add(1)
	go func() {
		defer serverGroup.Done()
		logger.Printf(ctx, "gRPC server listening on %s", grpcListener.Addr())
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErrs <- errors.Wrap(err, "grpc server")
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-serverErrs:
	}

	stop()
	serverGroup.Wait()

	logger.Println(ctx, "server stopped")
	return serveErr
}

func newHTTPServer(port string, service domain.ReportService, logger *infra.Logger) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           httpapi.NewServer(service, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
