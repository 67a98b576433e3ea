package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tiann-Paete/website-Nars-School-Supplies/handlers"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/auth"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/cart"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/orders"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/products"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/stores/postgres"
	"github.com/Tiann-Paete/website-Nars-School-Supplies/internal/users"
	"github.com/joho/godotenv"
)

func main() {
	if err := startApp(); err != nil {
		slog.Error("failed to start app", slog.String("Error", err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on environment")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	keys, err := auth.NewKeys(secret)
	if err != nil {
		return fmt.Errorf("initializing auth keys: %w", err)
	}

	db, err := postgres.OpenDB()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	uConf, err := users.NewConf(db)
	if err != nil {
		return err
	}
	pConf, err := products.NewConf(db)
	if err != nil {
		return err
	}
	cConf, err := cart.NewConf(db)
	if err != nil {
		return err
	}
	oConf, err := orders.NewConf(db)
	if err != nil {
		return err
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	api := http.Server{
		Addr:         ":" + port,
		Handler:      handlers.API("/api", keys, uConf, pConf, cConf, oConf),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("api listening", slog.String("Addr", api.Addr))
		serverErrors <- api.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("shutdown started", slog.String("Signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := api.Shutdown(ctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
