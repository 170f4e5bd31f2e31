package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rmacedo/opsdesk-api/internal/config"
	"github.com/rmacedo/opsdesk-api/internal/database"
	"github.com/rmacedo/opsdesk-api/internal/handlers"
	authmw "github.com/rmacedo/opsdesk-api/internal/middleware"
	"github.com/rmacedo/opsdesk-api/internal/services"
	"github.com/rmacedo/opsdesk-api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	whitelistService := services.NewWhitelistService(db)
	roleService := services.NewRoleService(db)
	profileService := services.NewProfileService(db)
	tokenService := services.NewTokenService(db)
	resolver := services.NewProfileResolver(whitelistService, profileService, roleService)

	hub := session.NewHub()
	go hub.Run()

	controller := session.NewController(resolver, tokenService, profileService, hub)

	authHandler := handlers.NewAuthHandler(cfg, controller, profileService, tokenService, jwtService)
	profileHandler := handlers.NewProfileHandler(controller)
	roleHandler := handlers.NewRoleHandler(roleService)
	whitelistHandler := handlers.NewWhitelistHandler(whitelistService)
	usersHandler := handlers.NewUsersHandler(profileService, roleService)
	modulesHandler := handlers.NewModulesHandler()
	sseHandler := handlers.NewSSEHandler(controller)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", authHandler.GetConsentURL)
	auth.Get("/:provider/callback", authHandler.Callback)
	auth.Post("/exchange", authHandler.ExchangeCode)
	auth.Post("/refresh", authHandler.RefreshToken)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/session/events", sseHandler.Connect)

	resolved := api.Group("")
	resolved.Use(authmw.Auth(jwtService))
	resolved.Use(authmw.LoadProfile(profileService))

	resolved.Get("/me", profileHandler.GetMe)
	resolved.Get("/modules", modulesHandler.List)

	admin := api.Group("")
	admin.Use(authmw.Auth(jwtService))
	admin.Use(authmw.LoadProfile(profileService))
	admin.Use(authmw.RequireAdmin())

	admin.Get("/roles", roleHandler.List)
	admin.Post("/roles", roleHandler.Create)
	admin.Put("/roles/:id", roleHandler.Update)
	admin.Delete("/roles/:id", roleHandler.Delete)

	admin.Get("/users", usersHandler.List)
	admin.Put("/users/:id/role", usersHandler.UpdateRole)

	admin.Get("/whitelist", whitelistHandler.List)
	admin.Post("/whitelist", whitelistHandler.Invite)
	admin.Delete("/whitelist/:email", whitelistHandler.Deactivate)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if err := tokenService.CleanupExpired(context.Background()); err != nil {
				log.Printf("Failed to cleanup expired tokens: %v", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Printf("Starting opsdesk-api on %s", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down...")
}
