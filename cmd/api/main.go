package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	"github.com/thistracker/thistracker-backend/config"
	"github.com/thistracker/thistracker-backend/internal/auth"
	"github.com/thistracker/thistracker-backend/internal/bootstrap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(&cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		log.Println("[api] firebase auth enabled")
	} else {
		log.Println("[api] firebase auth disabled, using X-User-Id fallback")
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = bootstrap.OpenRedis(context.Background(), cfg.Redis)
		if err != nil {
			log.Printf("[api] redis unavailable, tab locking disabled: %v", err)
			rdb = nil
		} else {
			log.Println("[api] redis connected, tab locking enabled")
		}
	}

	factory := bootstrap.NewServiceFactory(cfg, rdb)
	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "thistracker-backend",
		Version:     cfg.App.Version,
		AuthClient:  authClient,
		Redis:       rdb,
		Factory:     factory,
	})

	log.Printf("[api] listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
