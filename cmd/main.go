package main

import (
	"context"

	"github.com/roymathewwww/canteen-rush-ai/config"
	"github.com/roymathewwww/canteen-rush-ai/routes"
	"github.com/roymathewwww/canteen-rush-ai/services"

	log "github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	// The store is chosen once here: Postgres normally, the in-memory
	// adapter when running without a database.
	var store services.Store
	var push *services.PushService
	if config.OfflineMode() {
		log.Warn("OFFLINE_MODE set, using in-memory store")
		store = services.NewMemoryStore()
	} else {
		config.InitDB()
		store = services.NewGormStore(config.DB)
		var err error
		push, err = services.NewPushService(config.DB)
		if err != nil {
			log.WithError(err).Warn("push notifications disabled")
			push = nil
		}
	}

	hub := services.NewRealtimeHub()
	services.InitNotifyDeps(hub, push)

	menuSvc := services.NewMenuService(store)
	if err := menuSvc.SeedIfEmpty(context.Background()); err != nil {
		log.WithError(err).Warn("menu seed failed")
	}
	orderSvc := services.NewOrderService(store, config.VendorID(), config.ChefCount())

	r := routes.SetupRouter(orderSvc, menuSvc, hub, push)
	if err := r.Run(":" + config.Port()); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
