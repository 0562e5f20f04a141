package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-ledger/internal/app"
	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/internal/handler"
	"go-inventory-ledger/internal/seed"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"
)

func main() {
	// 1. Config
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// 2. Database
	db := database.ConnectDB(cfg.DB)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed privileges, roles, admin and reference data
	if err := seed.Run(context.Background(), db, seed.Options{
		AdminEmail:    cfg.SeedAdminEmail,
		AdminPassword: cfg.SeedAdminPassword,
	}); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// 4. Optional cache
	rdb := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if rdb != nil {
		defer rdb.Close()
	}

	// 5. Wiring
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	c := app.Build(app.Deps{
		DB:               db,
		Redis:            rdb,
		Tokens:           tokens,
		CategoryCacheTTL: cfg.CategoryCacheTTL,
		RestockOnReject:  cfg.RestockOnReject,
	})
	if cfg.RestockOnReject {
		log.Println("Rejected orders return their reserved stock")
	}

	server := handler.NewApp(c.Handlers, handler.RouterOptions{
		AppName:   cfg.AppName,
		Tokens:    tokens,
		Users:     c.Users,
		AccessLog: true,
	})

	// 6. Graceful shutdown
	go func() {
		if err := server.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}
