package service

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"commentbox/app/avatars"
	"commentbox/app/controllers"
	"commentbox/app/routes"
)

// RunAppServer starts the comment API and blocks until interrupted
func RunAppServer(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Addr, "address to listen on")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Serve(ctx, *addr); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

// Serve opens the configured store, serves the API on addr and shuts down
// gracefully when ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	comments, identity, closeFn, err := openWidget()
	if err != nil {
		return err
	}
	defer closeFn()

	widget := controllers.NewWidget(comments, identity)
	router := routes.SetupRoutes(widget, avatars.NewEncoder(cfg.MaxAvatarBytes))

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting comment service on %s (%s store at %s)", addr, cfg.Backend, cfg.DataPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down comment service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
