// Package web serves the JSON API used by the prompt editor front end.
package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/erde/internal/config"
	"github.com/hpungsan/erde/internal/ops"
	"github.com/hpungsan/erde/internal/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options wires the server to its collaborators.
type Options struct {
	DB        *sql.DB
	Config    *config.Config
	Optimizer ops.Optimizer
	Tracker   *session.Tracker
	Logger    logrus.FieldLogger
	Version   string
}

// NewServer creates and configures the HTTP server for the erde API.
func NewServer(opts Options) *http.Server {
	h := newHandlers(opts)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	mux.HandleFunc("POST /api/optimize", h.HandleOptimize)
	mux.HandleFunc("POST /api/analyze", h.HandleAnalyze)
	mux.HandleFunc("POST /api/impact", h.HandleImpact)

	mux.HandleFunc("POST /api/auth/register", h.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", h.HandleLogin)

	mux.HandleFunc("GET /api/history", h.HandleHistory)
	mux.HandleFunc("DELETE /api/history", h.HandleClearHistory)

	mux.HandleFunc("GET /api/prompts", h.HandleListPrompts)
	mux.HandleFunc("POST /api/prompts", h.HandleSavePrompt)
	mux.HandleFunc("GET /api/prompts/search", h.HandleSearchPrompts)
	mux.HandleFunc("POST /api/prompts/{id}/use", h.HandleUsePrompt)
	mux.HandleFunc("DELETE /api/prompts/{id}", h.HandleDeletePrompt)

	mux.HandleFunc("GET /api/metrics", h.HandleMetrics)
	mux.HandleFunc("POST /api/metrics/reset", h.HandleResetMetrics)

	mux.HandleFunc("GET /api/templates", h.HandleTemplates)

	handler := requestID(logRequests(h.log, securityHeaders(mux)))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", h.cfg.Bind, h.cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logrus.FieldLogger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithField("addr", srv.Addr).Info("erde API listening")

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
