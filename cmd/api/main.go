package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oakline/concierge/internal/config"
	"github.com/oakline/concierge/internal/handler"
	widgetHandler "github.com/oakline/concierge/internal/handler/widget"
	"github.com/oakline/concierge/internal/model/sitemap"
	"github.com/oakline/concierge/internal/model/suggestion"
	"github.com/oakline/concierge/internal/service/ai"
	"github.com/oakline/concierge/internal/service/upstream"
	widgetService "github.com/oakline/concierge/internal/service/widget"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	responder, enabled := buildResponder(ctx, cfg)

	suggestions := suggestion.NewMemoryStore(suggestion.Seed())
	sessions := widgetService.NewService(responder)
	widget := widgetHandler.New(sessions, suggestions, enabled)

	router := handler.NewRouter(widget)
	startServer(ctx, cfg.Server, router)
}

// buildResponder picks the assistant backend: a remote assist endpoint when
// one is configured, otherwise the built-in Ark model. With neither
// available the widget is forced off regardless of the feature flag.
func buildResponder(ctx context.Context, cfg *config.Config) (upstream.Responder, bool) {
	if !cfg.Widget.Enabled {
		log.Println("widget disabled by configuration")
		return nil, false
	}

	if cfg.Assist.URL != "" {
		log.Printf("using remote assist endpoint %s", cfg.Assist.URL)
		return upstream.NewClient(cfg.Assist.URL, cfg.Assist.Timeout), true
	}

	if cfg.AI.Enabled() {
		pages := sitemap.NewMemoryStore(sitemap.Seed())
		svc, err := ai.NewService(ctx, pages, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize built-in assistant: %v", err)
			log.Println("widget disabled - check the Ark model environment variables")
			return nil, false
		}
		log.Println("built-in assistant initialized successfully")
		return svc, true
	}

	log.Println("no assist endpoint or Ark credentials configured, widget disabled")
	return nil, false
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("concierge listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
