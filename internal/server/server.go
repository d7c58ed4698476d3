// Package server exposes the recommendation engine over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/stylesense/stylist-cli/internal/engine"
	"github.com/stylesense/stylist-cli/internal/store"
)

// Recommender is the engine dependency, satisfied by *engine.Engine.
type Recommender interface {
	Recommend(ctx context.Context, req engine.Request) (*engine.Result, error)
}

// Handler holds the HTTP endpoint dependencies.
type Handler struct {
	engine Recommender
	store  store.Store
}

// NewHandler creates a Handler.
func NewHandler(eng Recommender, st store.Store) *Handler {
	return &Handler{engine: eng, store: st}
}

// Serve runs an HTTP server on the given port until ctx is cancelled, then
// shuts down gracefully.
func Serve(ctx context.Context, port int, handler http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("server: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("server: shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("server: listening", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}
