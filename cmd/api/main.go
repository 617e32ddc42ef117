package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"redmango-orders/internal/config"
	"redmango-orders/internal/db"
	"redmango-orders/internal/events"
	"redmango-orders/internal/httpserver"
	cartrepo "redmango-orders/internal/repository/cart"
	menurepo "redmango-orders/internal/repository/menu"
	orderrepo "redmango-orders/internal/repository/order"
	userrepo "redmango-orders/internal/repository/user"
	ordersvc "redmango-orders/internal/service/order"
	paymentsvc "redmango-orders/internal/service/payment"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var publisher ordersvc.EventPublisher = events.Noop{}
	if cfg.AMQPUrl != "" {
		amqpPublisher, err := events.Dial(cfg.AMQPUrl, logger)
		if err != nil {
			logger.Fatalf("connect amqp: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	menuRepo := menurepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool, logger)

	orderService := ordersvc.New(orderRepo, userRepo, menuRepo, publisher, logger)
	gateway := paymentsvc.NewStripeGateway(cfg.StripeKey)
	paymentService := paymentsvc.New(cartRepo, gateway, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		OrderSvc:   orderService,
		PaymentSvc: paymentService,
		CartSvc:    cartRepo,
		JWTSecret:  cfg.JWTSecret,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
