package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/charmbracelet/log"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/favorites"
	"github.com/Zachkp/portfolio/internal/masonry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration", "err", err)
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped", "err", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	portfolio, err := content.Load()
	if err != nil {
		return err
	}

	adm, err := newAdmin(ctx, db, cfg.Admin, logger)
	if err != nil {
		return err
	}
	defer adm.wait()
	if cfg.UsingDefaultAdmin() {
		logger.Warn("Using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	var backend favorites.Backend
	if cfg.RedisURL != "" {
		rdb, err := favorites.OpenRedis(ctx, cfg.RedisURL, cfg.FavoritesTTL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		backend = rdb
		adm.externalFavorites = true
		logger.Info("Favorites stored in Redis")
	} else {
		sq, err := favorites.NewSQLite(ctx, db)
		if err != nil {
			return err
		}
		backend = sq
		logger.Info("Favorites stored in SQLite", "path", cfg.DatabasePath)
	}

	relay := contact.NewRelay(cfg.Contact())
	if _, ok := relay.(contact.Disabled); ok {
		logger.Warn("No email relay configured, contact form submissions will fail")
	} else {
		logger.Info("Contact relay ready", "relay", contact.Name(relay))
	}

	s := &server{
		logger:    logger,
		portfolio: portfolio,
		favorites: favorites.NewStore(backend, cfg.FavoritesLimit),
		relay:     relay,
		admin:     adm,
		grid:      masonry.DefaultOptions(),
		site:      cfg.SiteURL,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
		// cancels open favorites streams on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
