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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/abelprasad/SathikaBoutique/internal/cache"
	"github.com/abelprasad/SathikaBoutique/internal/config"
	h "github.com/abelprasad/SathikaBoutique/internal/http"
	"github.com/abelprasad/SathikaBoutique/internal/logger"
	"github.com/abelprasad/SathikaBoutique/internal/repository"
	"github.com/abelprasad/SathikaBoutique/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog.Desugar())

	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		zlog.Fatalw("failed to connect to MongoDB", "error", err)
	}
	zlog.Infow("connected to MongoDB", "uri", cfg.Mongo.URI)

	cartRepo := repository.NewCartRepository(mongoDB)
	productRepo := repository.NewProductRepository(mongoDB)
	adminRepo := repository.NewAdminRepository(mongoDB)

	if err := repository.EnsureIndexes(ctx, cartRepo, productRepo, adminRepo); err != nil {
		zlog.Fatalw("failed to create indexes", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zlog.Fatalw("redis connection failed", "error", err)
	}
	zlog.Infow("connected to Redis", "addr", cfg.Redis.Addr)

	cartCache := cache.NewRedisCache(redisClient)
	cartService := service.NewCartService(cartRepo, productRepo, cartCache, zlog, cfg.Cart.TTL)
	catalogService := service.NewCatalogService(productRepo, zlog)
	authService := service.NewAuthService(adminRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, zlog)

	cartHandler := h.NewCartHandler(cartService, cfg.HTTP.RequestTimeout)
	productHandler := h.NewProductHandler(catalogService, cfg.HTTP.RequestTimeout)
	authHandler := h.NewAuthHandler(authService, cfg.HTTP.RequestTimeout)
	uploadHandler := h.NewUploadHandler(cfg.Upload.Dir, cfg.Upload.PublicPath, cfg.Upload.MaxSizeMB)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(h.RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"success","message":"Server is running"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/cart/{sessionId}", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{itemId}", cartHandler.UpdateItem)
			r.Delete("/items/{itemId}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.ClearCart)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/featured", productHandler.Featured)
			r.Get("/categories", productHandler.Categories)
			r.Get("/slug/{slug}", productHandler.GetBySlug)
			r.Get("/{id}", productHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin(authService))
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin(authService))
				r.Get("/me", authHandler.Me)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin(authService))
			r.Post("/upload", uploadHandler.Upload)
		})
	})

	// Serve uploaded files
	r.Handle(cfg.Upload.PublicPath+"/*", http.StripPrefix(cfg.Upload.PublicPath+"/",
		http.FileServer(http.Dir(cfg.Upload.Dir))))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      otelhttp.NewHandler(r, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zlog.Infow("server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("server error", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatalw("server forced to shutdown", "error", err)
	}

	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		zlog.Warnw("mongo disconnect failed", "error", err)
	}

	zlog.Info("server exited")
}
