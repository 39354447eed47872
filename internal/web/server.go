package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/taskbox/internal/config"
	"github.com/hpungsan/taskbox/internal/logger"
	"github.com/hpungsan/taskbox/internal/ops"
)

// NewServer creates the HTTP server for the task API.
func NewServer(store ops.TaskStore, cfg *config.Config, log logger.Logger) *http.Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if log == nil {
		log = logger.Nop{}
	}

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:           NewHandler(store, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the routed handler with its middleware chain.
func NewHandler(store ops.TaskStore, cfg *config.Config, log logger.Logger) http.Handler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	h := &Handlers{store: store, log: log}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /tasks", h.HandleList)
	mux.HandleFunc("POST /tasks", h.HandleAdd)
	mux.HandleFunc("PUT /tasks/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /tasks/{id}", h.HandleDelete)

	var handler http.Handler = mux
	handler = cors(cfg, handler)
	handler = securityHeaders(handler)
	handler = requestLog(log, handler)
	handler = requestID(handler)
	return handler
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logger.Logger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info("Taskbox API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
