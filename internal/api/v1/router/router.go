package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	// 1. Open DB connection pool
	dsn := cfg.DatabaseURL
	// For local testing we want SSL disabled; in production the
	// connection string is expected to carry its own SSL settings.
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		separator := "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
		dsn += separator + "sslmode=disable"
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Initialize validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 3. Initialize repositories & services & handlers
	userRepo := repository.NewUserRepo(pool)
	courseRepo := repository.NewCourseRepo(pool, logger)
	learnerRepo := repository.NewLearnerRepo(pool)

	openRouterClient := service.NewOpenRouterClient(
		cfg.OpenRouterBaseURL,
		cfg.OpenRouterAPIKey,
		cfg.OpenRouterModel,
		time.Duration(cfg.OpenRouterTimeoutMs)*time.Millisecond,
		logger,
	)
	authClient := service.NewSupabaseAuthClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)

	generationSvc := service.NewGenerationService(openRouterClient, logger)
	courseSvc := service.NewCourseService(generationSvc, courseRepo, learnerRepo, logger)
	userSvc := service.NewUserService(userRepo)

	userHandler := handler.NewUserHandler(userSvc, logger)
	courseHandler := handler.NewCourseHandler(courseSvc, validate, logger)

	// 4. Initialize middleware
	authMiddleware := middleware.AuthMiddleware(authClient, userSvc, logger)

	// 5. Create ServeMux router
	mux := http.NewServeMux()

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	courseHandler.RegisterRoutes(apiV1Mux, authMiddleware)

	// Mount the API v1 routes under /v1
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	// Redirect root-level requests to /v1/{path}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// 6. Apply CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "apikey"},
		AllowCredentials: false,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}
