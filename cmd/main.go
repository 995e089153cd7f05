package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/homefix/maintenance-service/internal/db"
	"github.com/homefix/maintenance-service/internal/handlers"
	"github.com/homefix/maintenance-service/internal/repository"
	"github.com/homefix/maintenance-service/internal/router"
	"github.com/homefix/maintenance-service/internal/router/config"
	"github.com/homefix/maintenance-service/internal/services"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	logger := log.New(os.Stdout, "INFO: ", log.LstdFlags)

	rdb, err := db.InitRedis(cfg)
	if err != nil {
		log.Fatalf("error initializing redis: %v", err)
	}
	defer rdb.Close()

	var requestRepo repository.RequestRepository
	switch cfg.StorageDriver {
	case "postgres":
		runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

		dbPool, err := db.InitDb(cfg)
		if err != nil {
			log.Fatalf("error initializing database: %v", err)
		}
		defer dbPool.Close()

		requestRepo = repository.NewPostgresRequestRepository(dbPool)
	case "redis":
		memRepo := repository.NewMemoryRequestRepository(repository.NewRedisSnapshotter(rdb))
		if err := memRepo.Restore(context.Background()); err != nil {
			log.Fatalf("error restoring request snapshot: %v", err)
		}
		requestRepo = memRepo
	default:
		log.Fatalf("unknown storage driver: %s", cfg.StorageDriver)
	}

	tokenTTL := time.Duration(cfg.TokenTTLMin) * time.Minute
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}

	sessionRepo := repository.NewRedisSessionRepository(rdb)
	userRepo := repository.NewMemoryUserRepository()
	propertyRepo := repository.NewMemoryPropertyRepository()

	requestService := services.NewRequestService(requestRepo, propertyRepo)
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.JWTSigningKey, tokenTTL)

	requestHandler := handlers.NewRequestHandler(requestService, logger, 5*time.Second)
	authHandler := handlers.NewAuthHandler(authService, logger, 5*time.Second)
	middleware := router.NewMiddleware(authService, logger)

	routes := router.InitRoutes(requestHandler, authHandler, middleware)

	log.Printf("server is listening on %s...", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, routes); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		log.Fatal("cannot create a new migrate instance", err)
	}

	if err = migration.Up(); err != nil && err != migrate.ErrNoChange {
		log.Fatal("failed to run migrate up:", err)
	}
	log.Println("db migrated successfully")
}
