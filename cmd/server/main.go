package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cywf/AudiFi-sub000/internal/clock"
	"github.com/cywf/AudiFi-sub000/internal/config"
	"github.com/cywf/AudiFi-sub000/internal/database"
	"github.com/cywf/AudiFi-sub000/internal/handler"
	"github.com/cywf/AudiFi-sub000/internal/ledger"
	"github.com/cywf/AudiFi-sub000/internal/queue"
	"github.com/cywf/AudiFi-sub000/internal/repository"
	"github.com/cywf/AudiFi-sub000/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	store := repository.NewStore(db)
	clk := clock.NewSystem()
	shares := ledger.NewShareLedger(store, clk)
	mover := ledger.NewMoverAdvantage(store, clk)
	distributor := ledger.NewRevenueDistributor(store, clk)
	claims := ledger.NewClaimLedger(store, clk)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicBrowseHandler(shares, store), rdb)
	router.RegisterAPI(e,
		handler.NewArtistIPOHandler(shares, distributor, store),
		handler.NewMarketHandler(shares, mover, store),
		handler.NewDividendHandler(claims),
		cfg.JWTSecret, rdb)

	// Background consumer for revenue booked by upstream royalty
	// collectors. It reconnects forever; the server does not depend on it.
	go func() {
		if err := queue.StartRevenueConsumer(distributor); err != nil {
			log.Printf("revenue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
