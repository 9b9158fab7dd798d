package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cli/browser"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"sevenguis/internal/handlers"
	"sevenguis/internal/services"
	"sevenguis/pkg/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the widgets over HTTP",
	Long:  `Starts the HTTP server that renders the counter and temperature converter in the browser.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides configuration)")
	serveCmd.Flags().Bool("open", false, "Open the widget page in the default browser")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	logger := newLogger("sevenguis-server", cfg)
	metricsCollector := newMetrics()

	ctx := context.Background()
	logger.Info(ctx, "[STARTUP] Starting widget server", logging.Fields{
		"version":     Version,
		"server_host": cfg.Server.Host,
		"server_port": cfg.Server.Port,
		"max_mounts":  cfg.Widgets.MaxMounts,
	})

	widgets := services.NewWidgetService(cfg.Widgets.MaxMounts, logger, metricsCollector)
	widgetHandler := handlers.NewWidgetHandler(widgets, logger, metricsCollector)

	router := mux.NewRouter()
	widgetHandler.RegisterRoutes(router)
	router.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(ctx, "[SERVER_START] HTTP server listening", logging.Fields{
			"address": server.Addr,
		})
		serverErrors <- server.ListenAndServe()
	}()

	if open, _ := cmd.Flags().GetBool("open"); open {
		url := "http://" + net.JoinHostPort(browsableHost(cfg.Server.Host), strconv.Itoa(cfg.Server.Port)) + "/"
		if err := browser.OpenURL(url); err != nil {
			logger.Warn(ctx, "[BROWSER_OPEN_FAILED] Could not open browser", logging.Fields{
				"url":   url,
				"error": err.Error(),
			})
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "[SERVER_ERROR] Server failed", logging.Fields{
				"address": server.Addr,
			}, err)
		}
		return nil

	case <-quit:
		logger.Info(ctx, "[SHUTDOWN] Shutting down server...", logging.Fields{})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "[SHUTDOWN_ERROR] Server forced to shutdown", logging.Fields{}, err)
		return server.Close()
	}

	logger.Info(ctx, "[SHUTDOWN_COMPLETE] Server stopped", logging.Fields{
		"mounts_discarded": widgets.Len(),
	})
	return nil
}

// browsableHost maps wildcard listen addresses to loopback
func browsableHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "127.0.0.1"
	default:
		return host
	}
}
